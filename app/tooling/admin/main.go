// This program performs administrative tasks for the ledger node.
package main

import "github.com/hongmengning/hathor-core/app/tooling/admin/commands"

func main() {
	commands.Execute()
}
