package config

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const configHeader = `# windeploy configuration
#
# Every value below is the built-in default. Uncomment a line to change it.
# Environment variables override this file: WINDEPLOY_TIMEOUTS_APPLY=2h
`

// GenerateConfigContent returns the default configuration as TOML with
// every value commented out
func GenerateConfigContent() (string, error) {
	cfg, err := Default()
	if err != nil {
		return "", err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	return configHeader + "\n" + commentOutConfigValues(string(data)), nil
}

// commentOutConfigValues comments out every assignment line, keeping blank
// lines, comments and section headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
