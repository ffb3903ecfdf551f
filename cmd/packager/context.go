package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/theassyrian/shaka-packager/internal/config"
)

// commandContext resolves the TOML packaging document once per process
// invocation, mirroring five82-spindle's commandContext.ensureConfig
// memoized-load pattern adapted from a daemon config to a one-shot
// packaging document.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	document   *config.Document
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureDocument() (*config.Document, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		doc, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.document = doc
		c.configPath = resolvedPath
	})
	return c.document, c.configErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
