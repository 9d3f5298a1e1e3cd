package types

// Version is the application version. Overwritten at build time with
// -ldflags "-X github.com/acalanetwork/relver/pkg/domain/types.Version=...".
var Version = "dev"
