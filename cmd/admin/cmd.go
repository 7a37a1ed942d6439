package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/yigit/projectdesk/internal/app/repositories"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	users         repositories.UserRepository
	storage       string
	migrationsDir string
	out           io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage: admin [-config PATH] COMMAND")
	fmt.Fprintln(cli.out, "  listusers - print every account")
	fmt.Fprintln(cli.out, "  migrate   - bring the storage schema up to date")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "listusers":
		return cli.listUsers()
	case "migrate":
		return cli.migrate()
	default:
		cli.printUsage()
		return errHelp
	}
}
