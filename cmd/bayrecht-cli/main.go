package main

import (
	"bayrecht-backend/cmd/bayrecht-cli/commands"
	"bayrecht-backend/lib/telemetry"
	"context"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "bayrecht-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
