package main

import (
	"os"

	"gopkg.in/yaml.v2"
	"tlog.app/go/errors"

	"github.com/hugr-lab/odata-go"
	"github.com/hugr-lab/odata-go/internal/logging"
)

// fileConfig is the YAML configuration file layout:
//
//	parser:
//	  max_depth: 64
//	  reject_trailing_tokens: true
//	log:
//	  level: debug
//	  format: json
//	  file: /var/log/odataq.log
type fileConfig struct {
	Parser parserConfig   `yaml:"parser"`
	Log    logging.Config `yaml:"log"`
}

type parserConfig struct {
	MaxDepth             int  `yaml:"max_depth"`
	RejectTrailingTokens bool `yaml:"reject_trailing_tokens"`
}

func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config %v", path)
	}

	return &cfg, nil
}

func (c *fileConfig) odataConfig() *odata.Config {
	return &odata.Config{
		MaxDepth:             c.Parser.MaxDepth,
		RejectTrailingTokens: c.Parser.RejectTrailingTokens,
	}
}
