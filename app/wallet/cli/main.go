package main

import "github.com/qcbit/escrow-gateway/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
