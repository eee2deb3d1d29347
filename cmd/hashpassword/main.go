// Command hashpassword prints the bcrypt hash to put in ORGANIZER_PASSWORD_HASH.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Dosada05/competition-engine/utils"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpassword <password>")
		os.Exit(2)
	}
	hash, err := utils.HashPassword(os.Args[1])
	if err != nil {
		slog.Error("failed to hash password", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println(hash)
}
