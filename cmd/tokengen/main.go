// Package main provides a CLI tool for generating test tokens for the HealthBridge API.
// These tokens use the dev signing key and will NOT work in production.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	jwttoken "healthbridge/internal/jwt_token"
	"healthbridge/internal/seeder"
	id "healthbridge/pkg/domain"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultIssuer   = "http://localhost:8080"
	defaultAudience = "healthbridge"
	defaultTokenTTL = time.Hour
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Role      string            `json:"role"`
	Subject   string            `json:"subject"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		printUsage(out)
		return errors.New("missing subcommand")
	}

	switch args[0] {
	case "patient", "doctor", "hospital":
		return generate(args[0], args[1:], out)
	case "demo":
		return listDemo(out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func generate(kind string, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet(kind, pflag.ContinueOnError)
	fs.SetOutput(out)
	subject := fs.String("id", "", "Subject UUID. Defaults to the first seeded "+kind+".")
	hospital := fs.String("hospital-id", "", "Hospital UUID for doctor tokens. Defaults to the doctor's seeded hospital.")
	signingKey := fs.String("signing-key", envOr("JWT_SIGNING_KEY", devSigningKey), "HS256 signing key")
	issuer := fs.String("issuer", envOr("JWT_ISSUER", defaultIssuer), "Token issuer")
	audience := fs.String("audience", envOr("JWT_AUDIENCE", defaultAudience), "Token audience")
	ttl := fs.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	actor, err := buildActor(kind, *subject, *hospital)
	if err != nil {
		return err
	}

	svc := jwttoken.NewJWTService(*signingKey, *issuer, *audience, *ttl)
	svc.SetEnv("dev")
	token, err := svc.GenerateAccessToken(context.Background(), actor)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tokenOutput{
			Token:     token,
			Role:      string(actor.Role()),
			Subject:   actor.Ref(),
			ExpiresIn: ttl.String(),
			Usage: map[string]string{
				"header": "Authorization: Bearer " + token,
			},
		})
	}

	fmt.Fprintf(out, "%s token for %s (expires in %s)\n\n", actor.Role(), actor.Ref(), ttl)
	fmt.Fprintln(out, token)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/...")
	return nil
}

func buildActor(kind, subject, hospital string) (id.Actor, error) {
	switch kind {
	case "patient":
		if subject == "" {
			subject = seeder.Patients[0].ID.String()
		}
		return id.NewActor(id.RolePatient, subject, "")
	case "doctor":
		if subject == "" {
			subject = seeder.Doctors[0].ID.String()
		}
		if hospital == "" {
			for _, d := range seeder.Doctors {
				if d.ID.String() == subject {
					hospital = d.HospitalID.String()
				}
			}
		}
		if hospital == "" {
			return nil, errors.New("--hospital-id is required for doctors outside the demo directory")
		}
		return id.NewActor(id.RoleDoctor, subject, hospital)
	default:
		if subject == "" {
			subject = seeder.Hospitals[0].ID.String()
		}
		return id.NewActor(id.RoleHospital, subject, "")
	}
}

func listDemo(out io.Writer) error {
	fmt.Fprintln(out, "Hospitals:")
	for _, h := range seeder.Hospitals {
		fmt.Fprintf(out, "  %s  %-14s %s\n", h.ID, h.HospitalUID, h.Name)
	}
	fmt.Fprintln(out, "Doctors:")
	for _, d := range seeder.Doctors {
		fmt.Fprintf(out, "  %s  %-14s %s (hospital %s)\n", d.ID, d.DoctorUID, d.Name, d.HospitalID)
	}
	fmt.Fprintln(out, "Patients:")
	for _, p := range seeder.Patients {
		fmt.Fprintf(out, "  %s  %-14s %s\n", p.ID, p.HealthUID, p.Name)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func printUsage(out io.Writer) {
	fmt.Fprint(out, `tokengen - mint dev tokens for the HealthBridge API

Usage:
  tokengen patient  [--id UUID] [--ttl 1h] [--json]
  tokengen doctor   [--id UUID] [--hospital-id UUID] [--ttl 1h] [--json]
  tokengen hospital [--id UUID] [--ttl 1h] [--json]
  tokengen demo     list the seeded directory

Without --id the first seeded entity of that role is used.
`)
}
