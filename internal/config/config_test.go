package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_RequiresPort(t *testing.T) {
	cfg := &Config{DBName: "quill"}
	assert.Error(t, cfg.Validate())

	cfg.Port = "8480"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RequiresDBName(t *testing.T) {
	cfg := &Config{Port: "8480"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_ProductionRejectsWeakPassword(t *testing.T) {
	cfg := &Config{
		Port:       "8480",
		DBName:     "quill",
		DBPassword: "password",
		Env:        "production",
	}
	assert.Error(t, cfg.Validate())

	cfg.DBPassword = ""
	assert.Error(t, cfg.Validate())

	cfg.DBPassword = "s3cure-and-long"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_DevelopmentAllowsDefaults(t *testing.T) {
	cfg := &Config{
		Port:       "8480",
		DBName:     "quill",
		DBPassword: "password",
		Env:        "development",
	}
	assert.NoError(t, cfg.Validate())
}
