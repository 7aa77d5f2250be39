package suite

import (
	"fmt"

	"github.com/kballard/go-shellquote"

	"github.com/roach88/vastlit/internal/config"
	"github.com/roach88/vastlit/internal/subst"
)

// registerBaseline adds the fixed tool set every test may use.
func registerBaseline(b *subst.Builder, cfg *config.Config) error {
	hostCC, err := shellquote.Split(cfg.HostCC)
	if err != nil {
		return fmt.Errorf("parse host_cc %q: %w", cfg.HostCC, err)
	}
	if len(hostCC) == 0 {
		return fmt.Errorf("host_cc is empty")
	}

	tools := []struct {
		token string
		cmd   subst.Command
		args  []string
	}{
		{"%PATH%", subst.LiteralValue(cfg.Path), nil},
		{"%shlibext", subst.LiteralValue(cfg.ShlibExt), nil},
		{"%vast-opt", subst.InTreeTool("vast-opt"), []string{"--no-implicit-module"}},
		{"%vast-cc", subst.InTreeTool("vast-cc"), nil},
		{"%vast-query", subst.InTreeTool("vast-query"), nil},
		{"%vast-front", subst.InTreeTool("vast-front"), nil},
		{"%vast-repl", subst.InTreeTool("vast-repl"), nil},
		{"%vast-cc1", subst.InTreeTool("vast-front"), []string{"-cc1", "-internal-isystem", "-nostdsysteminc"}},
		{"%vast-detect-parsers", subst.InTreeTool("vast-detect-parsers"), nil},
		{"%file-check", subst.AmbientTool("FileCheck"), nil},
		{"%cc", subst.AmbientTool(hostCC[0]), hostCC[1:]},
	}

	for _, tool := range tools {
		if tool.cmd.Kind == subst.Literal && tool.cmd.Name == "" {
			// Nothing to substitute; leave the token untouched in scripts.
			continue
		}
		if err := b.Register(tool.token, tool.cmd, tool.args...); err != nil {
			return err
		}
	}
	return nil
}
