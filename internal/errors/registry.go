package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryRouting,
		Message:  "No route matches the path",
		Detail:   "The router found no route whose pattern matches the requested path.",
		DocURL:   "https://strata.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryRouting,
		Message:  "Path decoding refused",
		Detail:   "A path segment contained an encoded slash, an invalid percent escape, a NUL byte, or invalid UTF-8. Such paths never match any route.",
		DocURL:   "https://strata.dev/docs/errors/E101",
	},
	"E104": {
		Category: CategoryRouting,
		Message:  "Duplicate route pattern",
		Detail:   "Two route declarations normalize to the same pattern.",
		DocURL:   "https://strata.dev/docs/errors/E104",
	},
	"E105": {
		Category: CategoryRouting,
		Message:  "Route parameter name conflict",
		Detail:   "Two routes use different parameter names at the same position under a shared prefix.",
		DocURL:   "https://strata.dev/docs/errors/E105",
	},
	"E106": {
		Category: CategoryRouting,
		Message:  "Wildcard segment not last",
		Detail:   "A wildcard may only appear as the final segment of a pattern.",
		DocURL:   "https://strata.dev/docs/errors/E106",
	},
	"E107": {
		Category: CategoryRouting,
		Message:  "Conflicting wildcard routes",
		Detail:   "Two wildcard routes occupy the same position with a different name or optionality.",
		DocURL:   "https://strata.dev/docs/errors/E107",
	},

	// ============================================
	// Manifest Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryManifest,
		Message:  "Invalid route manifest",
		Detail:   "The route manifest is not valid JSON.",
		DocURL:   "https://strata.dev/docs/errors/E110",
	},
	"E111": {
		Category: CategoryManifest,
		Message:  "Route manifest unreadable",
		Detail:   "The manifest source could not be read.",
		DocURL:   "https://strata.dev/docs/errors/E111",
	},
	"E112": {
		Category: CategoryManifest,
		Message:  "Invalid route declaration",
		Detail:   "A route declaration is missing a required field or has an invalid value.",
		DocURL:   "https://strata.dev/docs/errors/E112",
	},
	"E113": {
		Category: CategoryManifest,
		Message:  "Duplicate route id",
		Detail:   "Route ids must be unique across the manifest.",
		DocURL:   "https://strata.dev/docs/errors/E113",
	},
	"E114": {
		Category: CategoryManifest,
		Message:  "Invalid manifest reference",
		Detail:   "The manifest reference is neither a local file path nor a valid s3://bucket/key URL.",
		DocURL:   "https://strata.dev/docs/errors/E114",
	},

	// ============================================
	// Configuration Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid strata.json",
		Detail:   "The strata.json configuration file is malformed.",
		DocURL:   "https://strata.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   "https://strata.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number is outside the valid range.",
		DocURL:   "https://strata.dev/docs/errors/E122",
	},

	// ============================================
	// Server Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryServer,
		Message:  "Dev server failed to start",
		Detail:   "The development server could not bind its listen address.",
		DocURL:   "https://strata.dev/docs/errors/E130",
	},
	"E131": {
		Category: CategoryServer,
		Message:  "Route reload failed",
		Detail:   "The manifest changed but the new route table could not be built. The previous table stays active.",
		DocURL:   "https://strata.dev/docs/errors/E131",
	},
	"E132": {
		Category: CategoryServer,
		Message:  "Reload socket failed",
		Detail:   "A live reload WebSocket connection could not be established.",
		DocURL:   "https://strata.dev/docs/errors/E132",
	},

	// ============================================
	// CLI Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Project file already exists",
		Detail:   "Refusing to overwrite an existing file.",
		DocURL:   "https://strata.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Not a strata project",
		Detail:   "The current directory has no strata.json. Run this command from a project root or pass --manifest.",
		DocURL:   "https://strata.dev/docs/errors/E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Route manifest not found",
		Detail:   "No manifest exists at the configured location.",
		DocURL:   "https://strata.dev/docs/errors/E142",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Unknown project template",
		Detail:   "No scaffold template is registered under that name.",
		DocURL:   "https://strata.dev/docs/errors/E143",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
