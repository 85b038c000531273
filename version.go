package exointel

// Version is set at build time:
//
//	go build -ldflags "-X github.com/codenameuriel/exo-intel.Version=v1.0.0" ./cmd/exointel
var Version = "dev"
