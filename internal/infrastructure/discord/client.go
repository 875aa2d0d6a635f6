package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/snowflake"
	"github.com/lewlewstore/backend/internal/domain/notification"
	"github.com/lewlewstore/backend/internal/domain/role"
	"github.com/lewlewstore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const userAgent = "DiscordBot (https://github.com/lewlewstore/backend, 1.0)"

// Errors returned by the client
var (
	ErrMissingToken     = errors.New("discord: bot token is required")
	ErrInvalidSnowflake = errors.New("discord: invalid snowflake id")
	ErrUnavailable      = errors.New("discord: API unavailable")
	ErrRequestFailed    = errors.New("discord: request failed")
)

// APIError is a non-2xx answer from the REST API
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("discord: HTTP %d", e.Status)
	}
	return fmt.Sprintf("discord: HTTP %d: %s (code %d)", e.Status, e.Message, e.Code)
}

// Unwrap lets callers match ErrRequestFailed with errors.Is
func (e *APIError) Unwrap() error {
	return ErrRequestFailed
}

// Client talks to the chat platform through a discordgo REST session. It holds
// customers' roles (role.RoleStore) and posts purchase notifications
// (notification.Messenger). No gateway connection is opened.
type Client struct {
	session *discordgo.Session
	logger  *zap.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used by the session
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.session.Client = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a REST client authenticated as a bot.
// cfg.APIBaseURL repoints the process-wide discordgo endpoints.
func NewClient(cfg config.DiscordConfig, opts ...ClientOption) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord: failed to create session: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	session.Client = &http.Client{Timeout: timeout}
	session.UserAgent = userAgent
	// discordgo queues requests per rate-limit bucket and waits out 429s
	session.ShouldRetryOnRateLimit = true
	session.MaxRestRetries = 2

	if cfg.APIBaseURL != "" {
		useAPIBase(cfg.APIBaseURL)
	}

	c := &Client{
		session: session,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// useAPIBase points the endpoints the client uses at base
func useAPIBase(base string) {
	base = strings.TrimRight(base, "/") + "/"
	discordgo.EndpointAPI = base
	discordgo.EndpointGuilds = base + "guilds/"
	discordgo.EndpointChannels = base + "channels/"
}

// CurrentRoles returns the roles the member holds in the guild
func (c *Client) CurrentRoles(ctx context.Context, customerID, scope string) ([]string, error) {
	if err := validateIDs(scope, customerID); err != nil {
		return nil, err
	}

	m, err := c.session.GuildMember(scope, customerID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, c.translate(ctx, "get_member", err)
	}
	if m.Roles == nil {
		return []string{}, nil
	}
	return m.Roles, nil
}

// AddRole grants a role to a member
func (c *Client) AddRole(ctx context.Context, customerID, scope, roleID, reason string) error {
	if err := validateIDs(scope, customerID, roleID); err != nil {
		return err
	}
	err := c.session.GuildMemberRoleAdd(scope, customerID, roleID, requestOptions(ctx, reason)...)
	return c.translate(ctx, "add_role", err)
}

// RemoveRole revokes a role from a member
func (c *Client) RemoveRole(ctx context.Context, customerID, scope, roleID, reason string) error {
	if err := validateIDs(scope, customerID, roleID); err != nil {
		return err
	}
	err := c.session.GuildMemberRoleRemove(scope, customerID, roleID, requestOptions(ctx, reason)...)
	return c.translate(ctx, "remove_role", err)
}

// ApplyRoleDelta applies each grant and revoke independently
func (c *Client) ApplyRoleDelta(ctx context.Context, customerID, scope string, delta role.Delta) []role.OpResult {
	return role.ApplyDelta(ctx, c, customerID, scope, delta)
}

// SendMessage posts a text message to a channel. Only user mentions ping.
func (c *Client) SendMessage(ctx context.Context, channelID, content string) error {
	if err := validateIDs(channelID); err != nil {
		return err
	}
	_, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	}, discordgo.WithContext(ctx))
	return c.translate(ctx, "send_message", err)
}

func requestOptions(ctx context.Context, reason string) []discordgo.RequestOption {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(url.PathEscape(reason)))
	}
	return opts
}

// translate maps discordgo errors onto the client's error values
func (c *Client) translate(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	c.logger.Debug("Chat platform request failed", zap.String("operation", op), zap.Error(err))

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		apiErr := &APIError{}
		if restErr.Response != nil {
			apiErr.Status = restErr.Response.StatusCode
		}
		if restErr.Message != nil {
			apiErr.Code = restErr.Message.Code
			apiErr.Message = restErr.Message.Message
		}
		return apiErr
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// ValidateSnowflake reports whether id is a well-formed snowflake
func ValidateSnowflake(id string) error {
	parsed, err := snowflake.ParseString(id)
	if err != nil || parsed <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidSnowflake, id)
	}
	return nil
}

func validateIDs(ids ...string) error {
	for _, id := range ids {
		if err := ValidateSnowflake(id); err != nil {
			return err
		}
	}
	return nil
}

// Ensure Client implements the role and notification ports
var (
	_ role.RoleStore         = (*Client)(nil)
	_ role.RoleMutator       = (*Client)(nil)
	_ notification.Messenger = (*Client)(nil)
)
