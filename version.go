package main

// Version is the relcut CLI version. Set at build time for releases via
// -ldflags "-X main.Version=x.y.z".
var Version = "dev"
