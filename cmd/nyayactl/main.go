package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"nyaya/internal/compliance"
	complianceservice "nyaya/internal/compliance/service"
	"nyaya/internal/compliance/store/memory"
	"nyaya/internal/digest"
	"nyaya/internal/ledger"
	"nyaya/pkg/domain"
	"nyaya/pkg/requestcontext"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "nyayactl",
	Short:        "Forensic compliance tooling for BNSS 176(3)",
	SilenceUsage: true,
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// hash command
var hashCmd = &cobra.Command{
	Use:   "hash FILE",
	Short: "Print the SHA-256 digest of an evidence file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, size, err := digest.HashFile(args[0])
		if err != nil {
			return fmt.Errorf("hashing %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d bytes\n", sum, args[0], size)
		return nil
	},
}

// mandatory command
var mandatoryCmd = &cobra.Command{
	Use:   "mandatory SECTION...",
	Short: "Check whether forensic videography is mandatory for the invoked sections",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := cmd.Flags().GetString("law")
		if err != nil {
			return err
		}
		law, err := compliance.ParseLawCode(raw)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), compliance.IsForensicVideoMandatory(args, law))
	},
}

// caseFile is the YAML document read by the evaluate command. Video and
// visit token are optional; their case ids default to the case's.
type caseFile struct {
	Case       compliance.CaseFacts   `yaml:"case"`
	Video      *compliance.Video      `yaml:"video"`
	VisitToken *compliance.VisitToken `yaml:"visit_token"`
}

func readCaseFile(path string) (*caseFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cf caseFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cf.Video != nil && cf.Video.CaseID.IsNil() {
		cf.Video.CaseID = cf.Case.CaseID
	}
	if cf.VisitToken != nil && cf.VisitToken.CaseID.IsNil() {
		cf.VisitToken.CaseID = cf.Case.CaseID
	}
	return &cf, nil
}

// evaluateCase runs the case through the same service the API uses, backed by
// memory stores and a throwaway ledger.
func evaluateCase(ctx context.Context, cf *caseFile) (*complianceservice.View, error) {
	chain, err := ledger.New(digest.SHA256())
	if err != nil {
		return nil, err
	}
	store := memory.New()
	svc := complianceservice.New(store, store, chain)

	view, err := svc.RegisterCase(ctx, cf.Case)
	if err != nil {
		return nil, err
	}
	if cf.Video != nil {
		if view, err = svc.RecordVideo(ctx, *cf.Video); err != nil {
			return nil, err
		}
	}
	if cf.VisitToken != nil {
		if view, err = svc.RecordVisitToken(ctx, *cf.VisitToken); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a case file and print compliance, gate and display status",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("file")
		if err != nil {
			return err
		}
		cf, err := readCaseFile(path)
		if err != nil {
			return err
		}
		ctx := requestcontext.WithActor(cmd.Context(), domain.ActorID("nyayactl"), domain.RolePolice)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())
		view, err := evaluateCase(ctx, cf)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), view)
	},
}

// ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the hash-chained ledger",
}

type demoOutput struct {
	Algorithm string                 `json:"algorithm"`
	Head      string                 `json:"head"`
	Tampered  *int                   `json:"tampered_block,omitempty"`
	Blocks    []ledger.Block         `json:"blocks"`
	Integrity ledger.IntegrityReport `json:"integrity"`
}

func runLedgerDemo(ctx context.Context, algorithm string, blocks, tamper int) (*demoOutput, error) {
	hasher, err := digest.ByName(algorithm)
	if err != nil {
		return nil, err
	}
	chain, err := ledger.New(hasher)
	if err != nil {
		return nil, err
	}
	for i := 1; i <= blocks; i++ {
		if _, err := chain.Append(ctx, map[string]any{
			"id":   fmt.Sprintf("DEMO-%03d", i),
			"type": "DEMO_RECORD",
			"seq":  i,
		}); err != nil {
			return nil, fmt.Errorf("appending block %d: %w", i, err)
		}
	}

	out := &demoOutput{Algorithm: chain.Algorithm()}
	if tamper >= 0 {
		if !chain.Tamper(tamper) {
			return nil, fmt.Errorf("block %d cannot be tampered (genesis is fixed, chain has %d blocks)", tamper, chain.Len())
		}
		out.Tampered = &tamper
	}
	out.Head = chain.Head()
	out.Blocks = chain.Blocks()
	out.Integrity = chain.VerifyChain()
	return out, nil
}

var ledgerDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build an in-memory chain, optionally tamper with one block, and verify it",
	RunE: func(cmd *cobra.Command, args []string) error {
		blocks, err := cmd.Flags().GetInt("blocks")
		if err != nil {
			return err
		}
		if blocks < 0 {
			return fmt.Errorf("--blocks must not be negative")
		}
		tamper, err := cmd.Flags().GetInt("tamper")
		if err != nil {
			return err
		}
		algorithm, err := cmd.Flags().GetString("digest")
		if err != nil {
			return err
		}
		out, err := runLedgerDemo(cmd.Context(), algorithm, blocks, tamper)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)

	rootCmd.AddCommand(mandatoryCmd)
	mandatoryCmd.Flags().String("law", string(compliance.LawBNS), "Law code of the sections (BNS or IPC)")

	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringP("file", "f", "", "Case file in YAML")
	_ = evaluateCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerDemoCmd)
	ledgerDemoCmd.Flags().IntP("blocks", "n", 3, "Number of blocks to append after genesis")
	ledgerDemoCmd.Flags().IntP("tamper", "t", -1, "Index of the block to tamper with (-1 for none)")
	ledgerDemoCmd.Flags().String("digest", digest.AlgorithmSHA256, "Digest algorithm (sha256 or blake2b)")
}
