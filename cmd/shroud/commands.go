package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zoobzio/shroud"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	maskKind  string
	maskFirst int
	maskLast  int
	maskChar  string

	authzAllowed []string
	authzRoles   []string
	authzUser    string
	authzAnon    bool
)

func init() {
	maskCmd.Flags().StringVar(&maskKind, "kind", string(shroud.MaskGeneric), "mask kind (see 'shroud kinds')")
	maskCmd.Flags().IntVar(&maskFirst, "first", 0, "leading characters to reveal (generic only)")
	maskCmd.Flags().IntVar(&maskLast, "last", 0, "trailing characters to reveal (generic only)")
	maskCmd.Flags().StringVar(&maskChar, "char", "", "mask character (default: mask.default_char)")

	authorizeCmd.Flags().StringSliceVar(&authzAllowed, "allowed", nil, "roles allowed to see the raw value")
	authorizeCmd.Flags().StringSliceVar(&authzRoles, "roles", nil, "roles held by the principal")
	authorizeCmd.Flags().StringVar(&authzUser, "user", "cli", "principal ID, used for role graph expansion")
	authorizeCmd.Flags().BoolVar(&authzAnon, "anonymous", false, "evaluate for an unauthenticated principal")
}

// maskCmd masks each argument
var maskCmd = &cobra.Command{
	Use:   "mask VALUE...",
	Short: "Mask values",
	Long: `Mask each value with the given kind and print one result per line.

Examples:
  shroud mask --kind email alice@example.com
  shroud mask --kind generic --first 2 --last 2 --char '#' secret-token`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMask,
}

func runMask(cmd *cobra.Command, args []string) error {
	kind, err := shroud.ParseMaskKind(maskKind)
	if err != nil {
		return err
	}

	char := cfg.MaskChar()
	if maskChar != "" {
		r := []rune(maskChar)
		if len(r) != 1 {
			return fmt.Errorf("--char must be a single character, got %q", maskChar)
		}
		char = r[0]
	}

	d, err := shroud.NewDescriptor(kind, shroud.ShowFirst(maskFirst), shroud.ShowLast(maskLast), shroud.WithMaskChar(char))
	if err != nil {
		return err
	}

	logger.Debug("masking values", zap.Stringer("descriptor", d), zap.Int("count", len(args)))
	for _, v := range args {
		fmt.Fprintln(cmd.OutOrStdout(), d.Mask(v))
	}
	return nil
}

// tagCmd validates sensitive tag values
var tagCmd = &cobra.Command{
	Use:   "tag TAG...",
	Short: "Validate sensitive tag values",
	Long: `Parse each sensitive tag value and print its normalized form.

Examples:
  shroud tag 'email,roles=ROLE_SUPPORT'
  shroud tag ''`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTag,
}

func runTag(cmd *cobra.Command, args []string) error {
	var failed int
	for _, tag := range args {
		d, err := shroud.ParseTag(tag)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "%q: %v\n", tag, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%q: %s\n", tag, d)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d tags invalid", failed, len(args))
	}
	return nil
}

// authorizeCmd evaluates a reveal decision
var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Check whether a principal may see a raw value",
	Long: `Evaluate the reveal decision for a field allow-list and a principal.
When authz.model_path and authz.policy_path are configured, the principal's
roles are expanded through the casbin role graph first.

Prints "reveal" or "mask".

Examples:
  shroud authorize --allowed ROLE_ADMIN --roles ROLE_ADMIN
  shroud authorize --allowed ROLE_VIEWER --user alice --config shroud.yaml`,
	Args: cobra.NoArgs,
	RunE: runAuthorize,
}

func runAuthorize(cmd *cobra.Command, _ []string) error {
	p := shroud.NewPrincipal(authzUser, authzRoles...)
	if authzAnon {
		p = shroud.Principal{}
	}

	exp, err := cfg.Expander()
	if err != nil {
		return err
	}
	if exp != nil {
		p = exp.Expand(context.Background(), p)
	}

	allowed := shroud.NewRoleSet(authzAllowed...)
	ok := shroud.Authorized(p, allowed)
	logger.Debug("authorization decision",
		zap.String("principal", p.ID),
		zap.Strings("roles", p.Roles.Slice()),
		zap.Strings("allowed", allowed.Slice()),
		zap.Bool("reveal", ok),
	)

	if ok {
		fmt.Fprintln(cmd.OutOrStdout(), "reveal")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "mask")
	}
	return nil
}

// kindsCmd lists mask kinds
var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List mask kinds",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		names := make([]string, 0, len(shroud.MaskKinds()))
		for _, k := range shroud.MaskKinds() {
			names = append(names, string(k))
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
	},
}

func zapAddSync(w io.Writer) zapcore.WriteSyncer {
	return zapcore.Lock(zapcore.AddSync(w))
}
