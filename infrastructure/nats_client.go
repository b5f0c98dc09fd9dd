package infrastructure

import (
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// ConnectNATS establishes a NATS connection with reconnect handling.
// An empty URL disables messaging and returns nil, which callers treat as
// "run without an event bus".
func ConnectNATS(url string, token string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}

	opts := []nats.Option{
		nats.Name("tokenrush"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	log.WithField("url", url).Info("Connected to NATS")
	return nc, nil
}
