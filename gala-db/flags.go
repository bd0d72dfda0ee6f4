package galadb

import (
	"time"

	galacli "github.com/gala-events/gala-api/gala-cli"
	"github.com/urfave/cli/v2"
)

// DefaultURI is the local fallback used when MONGODB_URI is unset. It exists
// for compatibility with older deployments; never point it at production.
const DefaultURI = "mongodb://127.0.0.1:27017"

var DBOpts struct {
	URI               string
	Database          string
	SecretName        string
	ConnectTimeout    time.Duration
	ReconnectInterval time.Duration
}

var URIFlag = galacli.StringFlag("mongodb-uri", "The MongoDB connection string", &DBOpts.URI, DefaultURI)
var DatabaseFlag = galacli.StringFlag("mongodb-database", "The database holding the gala collections", &DBOpts.Database, "gala")
var SecretFlag = galacli.StringFlag("mongodb-secret", "Secrets Manager secret holding the connection string; overrides --mongodb-uri", &DBOpts.SecretName)

var ConnectTimeoutFlag = &cli.DurationFlag{
	Name:        "connect-timeout",
	Usage:       "upper bound on a single connection attempt",
	Value:       10 * time.Second,
	EnvVars:     []string{"CONNECT_TIMEOUT"},
	Destination: &DBOpts.ConnectTimeout,
}
var ReconnectIntervalFlag = &cli.DurationFlag{
	Name:        "reconnect-interval",
	Usage:       "redial on this interval after the connection drops; 0 disables",
	Value:       0,
	EnvVars:     []string{"RECONNECT_INTERVAL"},
	Destination: &DBOpts.ReconnectInterval,
}

var DBFlags = []cli.Flag{
	URIFlag,
	DatabaseFlag,
	SecretFlag,
	ConnectTimeoutFlag,
	ReconnectIntervalFlag,
}
