package app

// Command is the application launch mode.
type Command string

const (
	// CommandServe starts the API server.
	CommandServe Command = "serve"
	// CommandMigrate applies pending database migrations.
	CommandMigrate Command = "migrate"
	// CommandHealthcheck probes the running server. Used as the Docker
	// healthcheck in distroless images where curl is unavailable.
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand resolves the subcommand from the argument list. Empty or
// unknown arguments fall back to serve.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
