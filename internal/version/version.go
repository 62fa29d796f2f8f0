package version

// Set at build time via -ldflags where a release pipeline exists;
// the defaults keep plain `go build` binaries identifiable.
var (
	AppName = "dc-bot"
	Version = "dev"
)
