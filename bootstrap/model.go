package bootstrap

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
)

const (
	defaultRunAsUser      = "appuser"
	defaultMonitoringPort = 9090
)

var (
	defaultDirs    = []string{"/app/logs", "/app/data"}
	defaultCommand = []string{"python", "run.py"}
)

type AppConfig struct {
	// Dirs is the ordered set of directories that must exist and be
	// owned by the run-as account before the workload starts. These
	// are volume mount points and may arrive with arbitrary host-side
	// ownership on every boot, so they are repaired on every boot.
	Dirs []string `json:"dirs"`

	// Command is the fallback command vector, used only when the
	// container runtime passes no arguments to the entrypoint.
	Command []string `json:"cmd"`

	// MonitoringPort is reserved for the workload's own metrics
	// endpoint. The entrypoint never binds it; it is carried here so
	// the image contract lives in one place.
	MonitoringPort int `json:"monitoring-port"`

	// RunAsUser and RunAsGroup are the unprivileged account the
	// workload runs as. These are specified in the `run-as` stanza
	// which takes the form user or user:group. If the group is not
	// specified the account's primary group is used. The account must
	// exist in the image's user database; it is provisioned at image
	// build, never here.
	RunAsUser  string
	RunAsGroup string
}

// ReadAppConfig loads the config baked into the image at build time. A
// missing file is not an error: the compiled-in defaults are the
// build-time contract of the stock image. A file that exists but does
// not parse is fatal.
func ReadAppConfig(path string) (*AppConfig, error) {
	cf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAppConfig(), nil
		}
		return nil, fmt.Errorf("ReadAppConfig: unable to load config: %s", err)
	}

	cfg := &AppConfig{}
	if err := json.Unmarshal(cf, &cfg); err != nil {
		return nil, fmt.Errorf("ReadAppConfig: unable to parse config: %s", err)
	}

	return cfg, nil
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Dirs:           append([]string{}, defaultDirs...),
		Command:        append([]string{}, defaultCommand...),
		MonitoringPort: defaultMonitoringPort,
		RunAsUser:      defaultRunAsUser,
	}
}

func (c *AppConfig) UnmarshalJSON(d []byte) error {
	type Alias AppConfig

	cfg := struct {
		RunAs string `json:"run-as"`
		*Alias
	}{Alias: (*Alias)(c)}

	if err := json.Unmarshal(d, &cfg); err != nil {
		return err
	}

	switch userGroup := strings.Split(cfg.RunAs, ":"); len(userGroup) {
	case 1:
		if userGroup[0] == "" {
			c.RunAsUser = defaultRunAsUser
		} else {
			c.RunAsUser = userGroup[0]
		}
	case 2:
		c.RunAsUser = userGroup[0]
		c.RunAsGroup = userGroup[1]
	default:
		return fmt.Errorf("AppConfig.UnmarshalJSON: invalid run-as string %s", cfg.RunAs)
	}

	if c.Dirs == nil {
		c.Dirs = append([]string{}, defaultDirs...)
	}
	for _, dir := range c.Dirs {
		if !path.IsAbs(dir) {
			return fmt.Errorf("AppConfig.UnmarshalJSON: dir %q is not an absolute path", dir)
		}
	}

	if c.Command == nil {
		c.Command = append([]string{}, defaultCommand...)
	}

	if c.MonitoringPort == 0 {
		c.MonitoringPort = defaultMonitoringPort
	}

	return nil
}
