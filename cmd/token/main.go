package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lewlewstore/backend/internal/infrastructure/auth"
	"github.com/lewlewstore/backend/internal/infrastructure/config"
	"github.com/lewlewstore/backend/internal/infrastructure/discord"
)

func main() {
	var (
		userID  string
		guildID string
		admin   bool
		ttl     time.Duration
	)
	flag.StringVar(&userID, "user", "", "User ID the token is issued to (required)")
	flag.StringVar(&guildID, "guild", "", "Guild ID the token is valid for (defaults to discord.guild_id)")
	flag.BoolVar(&admin, "admin", true, "Grant administrator permission")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to jwt.expiration)")
	flag.Parse()

	if err := run(userID, guildID, admin, ttl); err != nil {
		fmt.Fprintf(os.Stderr, "token: %v\n", err)
		os.Exit(1)
	}
}

func run(userID, guildID string, admin bool, ttl time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if guildID == "" {
		guildID = cfg.Discord.GuildID
	}
	if userID == "" || guildID == "" {
		flag.Usage()
		return fmt.Errorf("both -user and -guild are required")
	}
	for _, id := range []string{userID, guildID} {
		if err := discord.ValidateSnowflake(id); err != nil {
			return err
		}
	}

	token, err := auth.NewJWTService(cfg.JWT).GenerateToken(auth.GenerateTokenInput{
		UserID:     userID,
		GuildID:    guildID,
		Admin:      admin,
		Expiration: ttl,
	})
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(token)
}
