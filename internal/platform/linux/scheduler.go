//go:build linux

package linux

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/janko/shade/internal/platform"
)

const serviceTemplate = `[Unit]
Description=%s

[Service]
Type=oneshot
ExecStart=%s
StandardOutput=append:%s
StandardError=append:%s
`

const timerTemplate = `[Unit]
Description=%s

[Timer]
OnActiveSec=%ds
OnUnitActiveSec=%ds
AccuracySec=1s

[Install]
WantedBy=timers.target
`

// SchedulerService manages systemd user timers for Linux.
type SchedulerService struct{}

func NewSchedulerService() *SchedulerService {
	return &SchedulerService{}
}

func (s *SchedulerService) IsSupported() bool {
	_, err := exec.LookPath("systemctl")
	return err == nil
}

func (s *SchedulerService) Install(config platform.SchedulerConfig) error {
	unitDir, err := s.unitDir()
	if err != nil {
		return fmt.Errorf("failed to get unit directory: %w", err)
	}

	if err := os.MkdirAll(unitDir, 0755); err != nil {
		return fmt.Errorf("failed to create unit directory: %w", err)
	}

	if config.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(config.LogPath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	execStart := config.Command
	if len(config.Args) > 0 {
		execStart += " " + strings.Join(config.Args, " ")
	}

	serviceContent := fmt.Sprintf(serviceTemplate,
		config.Label,
		execStart,
		config.LogPath,
		config.LogPath,
	)

	firstRun := int(config.Interval.Seconds())
	if config.RunAtLoad {
		firstRun = 0
	}

	timerContent := fmt.Sprintf(timerTemplate,
		config.Label,
		firstRun,
		int(config.Interval.Seconds()),
	)

	servicePath := filepath.Join(unitDir, config.Label+".service")
	timerPath := filepath.Join(unitDir, config.Label+".timer")

	if err := os.WriteFile(servicePath, []byte(serviceContent), 0644); err != nil {
		return fmt.Errorf("failed to write service unit: %w", err)
	}
	if err := os.WriteFile(timerPath, []byte(timerContent), 0644); err != nil {
		return fmt.Errorf("failed to write timer unit: %w", err)
	}

	if output, err := exec.Command("systemctl", "--user", "daemon-reload").CombinedOutput(); err != nil {
		return fmt.Errorf("failed to reload systemd: %w (output: %s)", err, string(output))
	}

	cmd := exec.Command("systemctl", "--user", "enable", "--now", config.Label+".timer")
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to enable timer: %w (output: %s)", err, string(output))
	}

	return nil
}

func (s *SchedulerService) Uninstall(label string) error {
	unitDir, err := s.unitDir()
	if err != nil {
		return fmt.Errorf("failed to get unit directory: %w", err)
	}

	timerPath := filepath.Join(unitDir, label+".timer")
	servicePath := filepath.Join(unitDir, label+".service")

	if _, err := os.Stat(timerPath); os.IsNotExist(err) {
		return nil
	}

	_ = exec.Command("systemctl", "--user", "disable", "--now", label+".timer").Run()

	if err := os.Remove(timerPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove timer unit: %w", err)
	}
	if err := os.Remove(servicePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove service unit: %w", err)
	}

	_ = exec.Command("systemctl", "--user", "daemon-reload").Run()

	return nil
}

func (s *SchedulerService) Status(label string) (platform.SchedulerStatus, error) {
	unitDir, err := s.unitDir()
	if err != nil {
		return platform.SchedulerStatus{}, fmt.Errorf("failed to get unit directory: %w", err)
	}

	status := platform.SchedulerStatus{}

	timerPath := filepath.Join(unitDir, label+".timer")
	if _, err := os.Stat(timerPath); os.IsNotExist(err) {
		return status, nil
	}
	status.Installed = true

	cmd := exec.Command("systemctl", "--user", "is-active", "--quiet", label+".timer")
	status.Running = cmd.Run() == nil

	interval, err := s.parseTimer(timerPath)
	if err == nil {
		status.Interval = interval
	}
	logPath, err := s.parseService(filepath.Join(unitDir, label+".service"))
	if err == nil {
		status.LogPath = logPath
	}

	return status, nil
}

func (s *SchedulerService) unitDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "systemd", "user"), nil
}

func (s *SchedulerService) parseTimer(timerPath string) (time.Duration, error) {
	data, err := os.ReadFile(timerPath)
	if err != nil {
		return 0, err
	}

	re := regexp.MustCompile(`OnUnitActiveSec=(\d+)s`)
	matches := re.FindStringSubmatch(string(data))
	if len(matches) < 2 {
		return 0, fmt.Errorf("no interval found in timer unit")
	}

	seconds, _ := strconv.Atoi(matches[1])
	return time.Duration(seconds) * time.Second, nil
}

func (s *SchedulerService) parseService(servicePath string) (string, error) {
	data, err := os.ReadFile(servicePath)
	if err != nil {
		return "", err
	}

	re := regexp.MustCompile(`StandardOutput=append:(.+)`)
	matches := re.FindStringSubmatch(string(data))
	if len(matches) < 2 {
		return "", fmt.Errorf("no log path found in service unit")
	}
	return strings.TrimSpace(matches[1]), nil
}
