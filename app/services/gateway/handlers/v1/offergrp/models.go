package offergrp

import (
	"github.com/qcbit/escrow-gateway/foundation/blockchain/proxy"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/transaction"
)

type createOffer struct {
	SenderPrivateKey string `json:"senderPrivateKey" validate:"required"`
	Recipient        string `json:"recipient" validate:"required,bech32"`
	Amount           string `json:"amount" validate:"required,biguint"`
}

type offerAction struct {
	SenderPrivateKey string `json:"senderPrivateKey" validate:"required"`
	OfferID          string `json:"offerId" validate:"required,biguint"`
}

type txResult struct {
	TxHash string `json:"txHash"`
}

type queryResult struct {
	ReturnData    []string `json:"returnData"`
	ReturnDataHex []string `json:"returnDataHex"`
	ReturnCode    string   `json:"returnCode"`
	ReturnMessage string   `json:"returnMessage"`
}

func toQueryResult(qr proxy.QueryResult) queryResult {
	return queryResult{
		ReturnData:    qr.Base64(),
		ReturnDataHex: qr.Hex(),
		ReturnCode:    qr.ReturnCode,
		ReturnMessage: qr.ReturnMessage,
	}
}

type account struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	Nonce   uint64 `json:"nonce"`
	Balance string `json:"balance"`
}

func toAccount(acc transaction.Account, name string) account {
	return account{
		Address: acc.Address.Bech32(),
		Name:    name,
		Nonce:   acc.Nonce,
		Balance: acc.Balance,
	}
}
