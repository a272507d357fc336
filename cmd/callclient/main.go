// Command callclient holds a typed conversation with a running agent over
// gRPC. Each stdin line is one caller utterance.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcapi "hospital-voice-agent/internal/api/grpc"
	"hospital-voice-agent/internal/observability/logging"
)

type options struct {
	Server  string        `short:"s" long:"server" default:"localhost:50051" description:"gRPC server address"`
	Timeout time.Duration `long:"timeout" default:"10s" description:"per-call timeout"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}
	logcfg := logging.DefaultConfig()
	logcfg.Format = "console"
	logging.InitWriter(logcfg, os.Stderr)

	conn, err := grpc.NewClient(opts.Server, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect")
	}
	defer conn.Close()
	client := grpcapi.NewClient(conn)

	call := func(fn func(ctx context.Context) error) error {
		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()
		return fn(ctx)
	}

	var sessionID string
	err = call(func(ctx context.Context) error {
		reply, err := client.Start(ctx)
		if err != nil {
			return err
		}
		sessionID = reply.SessionID
		fmt.Printf("agent> %s\n", reply.Text)
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start conversation")
	}
	log.Info().Str("sessionId", sessionID).Msg("Conversation started")

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("caller> ")
		if !sc.Scan() {
			break
		}
		var ended bool
		err := call(func(ctx context.Context) error {
			reply, err := client.Turn(ctx, sessionID, sc.Text())
			if err != nil {
				return err
			}
			fmt.Printf("agent> %s\n", reply.Text)
			if reply.Booked != nil {
				log.Info().Str("appointmentId", reply.Booked.ID).Msg("Appointment booked")
			}
			ended = reply.Ended
			return nil
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Turn failed")
		}
		if ended {
			return
		}
	}

	_ = call(func(ctx context.Context) error {
		_, err := client.End(ctx, sessionID)
		return err
	})
}
