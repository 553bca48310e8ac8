package main

import "github.com/zdevbro-cpu/las-backoffice/internal/lasbackcli"

func main() {
	lasbackcli.Execute()
}
