package sform

// Version is the release of the sform module and CLI.
var Version = "0.3.0"
