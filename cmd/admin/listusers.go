package main

import (
	"context"
	"fmt"
)

// listUsers prints one line per account
func (cli *commandLine) listUsers() error {
	users, err := cli.users.List(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintln(cli.out, "Users in database:")
	for _, u := range users {
		fmt.Fprintf(cli.out, "- %s (%s) [%s]\n", u.Name, u.Email, u.Role)
	}
	fmt.Fprintf(cli.out, "Total users: %d\n", len(users))
	return nil
}
