package v1_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	v1 "github.com/qcbit/escrow-gateway/business/web/v1"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
)

func TestNewLedgerError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{fmt.Errorf("%w: bad", errs.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{fmt.Errorf("%w: bad", errs.ErrInvalidKey), http.StatusBadRequest, "invalid_key"},
		{errs.NewRemoteError(errs.ErrAccountNotFound, "", "no account"), http.StatusNotFound, "account_not_found"},
		{errs.NewRemoteError(errs.ErrRejected, "bad_request", "invalid nonce"), http.StatusUnprocessableEntity, "rejected"},
		{errs.NewRemoteError(errs.ErrContractExecution, "user error", "no offer"), http.StatusUnprocessableEntity, "contract_execution"},
		{fmt.Errorf("%w: timeout", errs.ErrNetworkUnavailable), http.StatusServiceUnavailable, "network_unavailable"},
	}

	for _, tt := range tests {
		err := v1.NewLedgerError(tt.err)
		require.True(t, v1.IsRequestError(err), tt.err)

		re := v1.GetRequestError(err)
		require.Equal(t, tt.status, re.Status)
		require.Equal(t, tt.err.Error(), re.Error())
		require.Equal(t, tt.kind, v1.KindName(errs.Kind(re)))
	}

	require.Nil(t, v1.NewLedgerError(errors.New("other")))
	require.Nil(t, v1.GetRequestError(errors.New("other")))
	require.Equal(t, http.StatusInternalServerError, v1.StatusFor(errors.New("other")))
}
