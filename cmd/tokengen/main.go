// Command tokengen issues an access token for an actor. The key must match
// the TOKEN_KEY of the running service.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/auth"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/caarlos0/env/v6"
)

func main() {
	var conf config.Auth
	if err := env.Parse(&conf); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %s\n", err)
		os.Exit(1)
	}

	id := flag.String("id", "", "Actor id")
	role := flag.String("role", string(domain.RoleAdmin), "CUSTOMER / FULFILLMENT / DELIVERY / ADMIN / SYSTEM")
	flag.StringVar(&conf.TokenKey, "k", conf.TokenKey, "Hex encoded token key")
	flag.DurationVar(&conf.TokenTTL, "ttl", conf.TokenTTL, "Token lifetime")
	flag.Parse()

	if *id == "" || conf.TokenKey == "" {
		flag.Usage()
		os.Exit(2)
	}

	tokens, err := auth.New(&conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token service error: %s\n", err)
		os.Exit(1)
	}
	token, err := tokens.CreateToken(domain.Actor{ID: *id, Role: domain.Role(*role)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "token error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
