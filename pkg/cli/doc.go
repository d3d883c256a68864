/*
Package cli provides command-line interface utilities for Custodia.

The cli package includes error types and signal handling helpers used by the
custodia command.

Error Types:

Commands wrap failures in ConfigError or CommandError so the root command can
print a consistent message:

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
