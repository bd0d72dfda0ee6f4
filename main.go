package main

import (
	"log"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/gala-events/gala-api/authdao"
	"github.com/gala-events/gala-api/conn"
	"github.com/gala-events/gala-api/eventdao"
	galacli "github.com/gala-events/gala-api/gala-cli"
	galadb "github.com/gala-events/gala-api/gala-db"
	galarest "github.com/gala-events/gala-api/gala-rest"
	galaroutes "github.com/gala-events/gala-api/gala-routes"
	galasecret "github.com/gala-events/gala-api/gala-secret"
	"github.com/gala-events/gala-api/requestdao"
	"github.com/urfave/cli/v2"
)

var service = galacli.NewService("gala-api")

func main() {
	app := galacli.App(
		service,
		action,
		append(
			append(galacli.CommonFlags, galacli.PortFlag(5001)),
			galadb.DBFlags...,
		)...,
	)
	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func action(c *cli.Context) error {
	logger := galacli.Logger(service)

	uri := galadb.DBOpts.URI
	if galadb.DBOpts.SecretName != "" {
		var secret struct {
			URI string `json:"uri"`
		}
		sess := session.Must(session.NewSession(aws.NewConfig()))
		if err := galasecret.LoadSecret(sess, galadb.DBOpts.SecretName, &secret); err != nil {
			return err
		}
		uri = secret.URI
	}

	db := galadb.New(galadb.Config{
		URI:      uri,
		Database: galadb.DBOpts.Database,
	})

	auths := authdao.Build(db)
	events := eventdao.Build(db)
	requests := requestdao.Build(db)

	manager := conn.NewManager(conn.Config{
		Connect:           db.Connect,
		Seed:              auths.EnsureDefaults,
		ConnectTimeout:    galadb.DBOpts.ConnectTimeout,
		ReconnectInterval: galadb.DBOpts.ReconnectInterval,
		Logger:            logger,
	})
	db.OnStateChange(manager.SetReady)

	var metrics *galacli.Metrics
	if !galacli.CommonOpts.Console {
		sess := session.Must(session.NewSession(aws.NewConfig()))
		metrics = galacli.NewMetrics(service, cloudwatch.New(sess))
	}

	router := galaroutes.Router(service, manager, metrics, &galaroutes.Handler{
		Service:  service,
		Auth:     auths,
		Events:   events,
		Requests: requests,
	})

	return galarest.Webserver(service, router)
}
