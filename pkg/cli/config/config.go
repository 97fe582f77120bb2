package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/auth"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/view"
	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/types"
)

// AppConfig holds the --config flag and the TOML file it points to
type AppConfig struct {
	path string
}

func (x *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the application TOML file",
			Sources:     cli.EnvVars("MONSTOR_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the TOML file. Without --config the built-in defaults apply.
func (x *AppConfig) Configure() (*App, error) {
	if x.path == "" {
		return &App{}, nil
	}
	return LoadAppConfiguration(x.path)
}

// App is the application configuration file
type App struct {
	Title    string   `toml:"title"`
	Statuses []Status `toml:"status"`
	Users    []User   `toml:"user"`
}

// Status overrides the display name of a ticket status
type Status struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

func (s *Status) Validate() error {
	if !types.TicketStatus(s.ID).IsValid() {
		return goerr.Wrap(ErrInvalidStatus, "unknown status", goerr.V(StatusIDKey, s.ID))
	}
	if s.Name == "" {
		return goerr.Wrap(ErrMissingName, "status name is required", goerr.V(StatusIDKey, s.ID))
	}
	return nil
}

// User is an account allowed to log in with a password
type User struct {
	ID           string `toml:"id"`
	Name         string `toml:"name"`
	Email        string `toml:"email"`
	PasswordHash string `toml:"password_hash" masq:"secret"`
}

func (u *User) Validate() error {
	if u.ID == "" {
		return goerr.Wrap(ErrMissingID, "user ID is required")
	}
	if u.PasswordHash == "" {
		return goerr.Wrap(ErrMissingPassword, "password_hash is required", goerr.V(UserIDKey, u.ID))
	}
	return nil
}

// Validate checks if the App is valid
func (a *App) Validate() error {
	statusIDs := make(map[string]bool)
	for _, s := range a.Statuses {
		if err := s.Validate(); err != nil {
			return goerr.Wrap(err, "invalid status")
		}
		if statusIDs[s.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate status ID", goerr.V(StatusIDKey, s.ID))
		}
		statusIDs[s.ID] = true
	}

	userIDs := make(map[string]bool)
	for _, u := range a.Users {
		if err := u.Validate(); err != nil {
			return goerr.Wrap(err, "invalid user")
		}
		if userIDs[u.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate user ID", goerr.V(UserIDKey, u.ID))
		}
		userIDs[u.ID] = true
	}

	return nil
}

// StatusLabels returns the configured display names
func (a *App) StatusLabels() view.StatusLabels {
	labels := make(view.StatusLabels, len(a.Statuses))
	for _, s := range a.Statuses {
		labels[types.TicketStatus(s.ID)] = s.Name
	}
	return labels
}

// Directory returns the login credentials of the configured users
func (a *App) Directory() auth.Directory {
	creds := make([]auth.Credential, len(a.Users))
	for i, u := range a.Users {
		creds[i] = auth.Credential{
			User: auth.User{
				ID:    types.UserID(u.ID),
				Name:  u.Name,
				Email: u.Email,
			},
			PasswordHash: u.PasswordHash,
		}
	}
	return auth.NewDirectory(creds...)
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*App, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var app App
	if err := toml.Unmarshal(data, &app); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config", goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := app.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &app, nil
}
