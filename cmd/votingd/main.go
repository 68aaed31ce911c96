package main

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"evoting-backend/api"
	"evoting-backend/config"
	"evoting-backend/models"
	"evoting-backend/registry"
	"evoting-backend/service"
	"evoting-backend/storage"
)

func main() {
	app := &cli.App{
		Name:  "votingd",
		Usage: "homomorphic e-voting engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API server",
				Action: serve,
			},
			{
				Name:   "demo",
				Usage:  "run a complete in-process election in both crypto modes",
				Action: demo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) (*service.VotingService, *config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, nil, err
	}

	store, err := storage.NewElectionStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.NewJSONRegistry(filepath.Join(cfg.DataDir, "voters.json"))
	if err != nil {
		return nil, nil, err
	}
	svc, err := service.New(store, reg)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

func serve(c *cli.Context) error {
	svc, cfg, err := setup(c)
	if err != nil {
		return err
	}
	if cfg.AdminToken == "" {
		log.Warn("no admin token configured, admin endpoints are open")
	}
	return api.NewServer(svc, cfg.AdminToken).Run(cfg.ListenAddress)
}

func demo(c *cli.Context) error {
	svc, _, err := setup(c)
	if err != nil {
		return err
	}

	for _, mode := range []models.CryptoMode{models.ModeClassic, models.ModeEC} {
		if err := runDemoElection(svc, mode); err != nil {
			return err
		}
	}
	return nil
}

// runDemoElection walks one election end to end: three voters cast
// valid ballots for distinct candidates, a fourth submits a tampered
// signature and is rejected, and the final tally reads 1-1-1.
func runDemoElection(svc *service.VotingService, mode models.CryptoMode) error {
	candidates := []string{"alice", "bob", "carol"}
	e, err := svc.InitializeElection(candidates, mode)
	if err != nil {
		return err
	}
	fmt.Printf("=== %s election %s ===\n", mode, e.ID)

	for i, voter := range []string{"voter-1", "voter-2", "voter-3"} {
		keys, err := svc.RegisterVoter(e.ID, voter)
		if err != nil {
			return err
		}
		ballot, err := service.BuildBallot(e, voter, keys.Private, i)
		if err != nil {
			return err
		}
		if err := svc.CastBallot(e.ID, ballot); err != nil {
			return err
		}
		fmt.Printf("%s voted for %s\n", voter, candidates[i])
	}

	keys, err := svc.RegisterVoter(e.ID, "voter-4")
	if err != nil {
		return err
	}
	ballot, err := service.BuildBallot(e, "voter-4", keys.Private, 0)
	if err != nil {
		return err
	}
	// Corrupt the signature to demonstrate rejection.
	ballot.Signature.S[0] ^= 0x01
	if err := svc.CastBallot(e.ID, ballot); err != nil {
		fmt.Printf("voter-4 rejected: %v\n", err)
	} else {
		return fmt.Errorf("tampered ballot was unexpectedly accepted")
	}

	results, err := svc.CloseAndTally(e.ID)
	if err != nil {
		return err
	}
	for i, name := range candidates {
		fmt.Printf("%s: %d\n", name, results[i])
	}
	return nil
}
