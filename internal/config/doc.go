// Package config provides configuration parsing for strata projects.
//
// The configuration is stored in strata.json at the project root.
// This package handles loading, saving, and validating configuration.
// A project without strata.json runs entirely on defaults.
//
// # Configuration File Structure
//
//	{
//	  "name": "my-app",
//	  "manifest": "routes.json",
//	  "server": {
//	    "port": 5173,
//	    "host": "localhost"
//	  },
//	  "watch": {
//	    "enabled": true,
//	    "debounce_ms": 150,
//	    "ignore": ["node_modules", ".git"]
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "strata"
//	  }
//	}
//
// The manifest reference may also be an S3 URL (s3://bucket/key).
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Serving on", cfg.ServerURL())
package config
