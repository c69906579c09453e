// Command hashkey prints the bcrypt hash to put in auth.admin_key_hash (ADMIN_KEY_HASH).
//
//	go run ./cmd/hashkey <admin-key>
//
// The key is read from stdin when no argument is given.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pmb/admissions/internal/pkg/auth"
	"github.com/pmb/admissions/internal/pkg/logger"
)

func main() {
	key, err := readKey()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read admin key")
		os.Exit(1)
	}
	if key == "" {
		logger.Error().Msg("Admin key must not be empty")
		os.Exit(2)
	}

	hash, err := auth.HashKey(key)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash admin key")
		os.Exit(1)
	}
	fmt.Println(hash)
}

func readKey() (string, error) {
	if len(os.Args) > 1 {
		return strings.TrimSpace(os.Args[1]), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
