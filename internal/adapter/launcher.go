package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path"
	"runtime"
	"strings"
)

// Launcher opens media in an external player and links in the system opener
type Launcher struct {
	command      string   // configured player command, empty to auto-detect
	args         []string // additional arguments for the player
	subtitleFlag string   // subtitle flag prefix, e.g., "--sub-file="
	logger       *slog.Logger
}

// launchPath defines a single way to launch a player
type launchPath struct {
	path      string   // Command path: "/usr/bin/mpv", "vlc", or "open-a:AppName"
	openFlags []string // For "open-a:" paths only - flags for macOS open command (e.g., ["-n"])
}

// playerConfig defines platform-specific launch configurations for a player
type playerConfig struct {
	subtitleFlag string                  // External subtitle flag (e.g., "--sub-file=")
	platforms    map[string][]launchPath // Platform -> launch paths to try in order
}

// players registry - single source of truth for all player configuration
var players = map[string]playerConfig{
	"mpv": {
		subtitleFlag: "--sub-file=",
		platforms: map[string][]launchPath{
			"darwin":  {{path: "mpv"}},
			"linux":   {{path: "mpv"}},
			"windows": {{path: "mpv"}},
		},
	},
	"vlc": {
		subtitleFlag: "--sub-file=",
		platforms: map[string][]launchPath{
			"darwin": {
				{path: "vlc"},
				{path: "open-a:VLC"},
			},
			"linux":   {{path: "vlc"}},
			"windows": {{path: "vlc"}},
		},
	},
	"iina": {
		subtitleFlag: "--mpv-sub-file=",
		platforms: map[string][]launchPath{
			"darwin": {
				{path: "open-a:IINA", openFlags: []string{"-n"}},
			},
		},
	},
	"celluloid": {
		subtitleFlag: "--mpv-sub-file=",
		platforms: map[string][]launchPath{
			"linux": {{path: "celluloid"}},
		},
	},
	"potplayer": {
		subtitleFlag: "/sub=",
		platforms: map[string][]launchPath{
			"windows": {{path: "PotPlayerMini64.exe"}, {path: "PotPlayerMini.exe"}},
		},
	},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "vlc", "mpv"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"vlc", "mpv", "potplayer"},
}

// NewLauncher creates a Launcher, detecting the subtitle flag of known players
func NewLauncher(command string, args []string, subtitleFlag string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	resolvedFlag := subtitleFlag
	if resolvedFlag == "" && command != "" {
		if playerCfg, ok := players[playerName(command)]; ok {
			resolvedFlag = playerCfg.subtitleFlag
			logger.Debug("auto-detected player subtitle flag", "player", command, "flag", resolvedFlag)
		}
	}

	return &Launcher{
		command:      command,
		args:         args,
		subtitleFlag: resolvedFlag,
		logger:       logger,
	}
}

// playerName normalizes a command path to a registry key. Windows paths are
// accepted on every platform, so config files stay portable.
func playerName(command string) string {
	base := path.Base(strings.ReplaceAll(command, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.ToLower(base)
}

// subtitleArgs renders the subtitle flag for file, if both are known
func subtitleArgs(flag, file string) []string {
	if flag == "" || file == "" {
		return nil
	}
	// Flags like "--sub " take the value as a separate arg
	if strings.HasSuffix(flag, " ") {
		return []string{strings.TrimSuffix(flag, " "), file}
	}
	return []string{flag + file}
}

// Launch plays src, loading subtitleFile as captions when it is non-empty
func (l *Launcher) Launch(src, subtitleFile string) error {
	// Tier 1: User configured a specific player
	if l.command != "" {
		return l.launchConfigured(src, subtitleFile)
	}

	// Tier 2: Try candidate chain (IINA → VLC → mpv on macOS, etc.)
	if _, err := detectAndLaunch(src, subtitleFile, l.logger); err == nil {
		return nil
	}

	// Tier 3: Fall back to system default, captions are lost here
	l.logger.Info("no candidate players found, using system default")
	return l.Open(src)
}

// detectAndLaunch tries candidate players in order.
// Returns the player name that succeeded.
func detectAndLaunch(src, subtitleFile string, logger *slog.Logger) (string, error) {
	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, name := range candidates {
		player, exists := players[name]
		if !exists {
			continue
		}
		launchPaths, ok := player.platforms[runtime.GOOS]
		if !ok {
			continue
		}

		args := subtitleArgs(player.subtitleFlag, subtitleFile)
		for _, lp := range launchPaths {
			var err error
			if appName, found := strings.CutPrefix(lp.path, "open-a:"); found {
				err = exec.Command("open", openArgs(appName, lp.openFlags, args, src)...).Run()
			} else {
				err = tryLaunchWithCommand(lp.path, src, args)
			}

			if err == nil {
				logger.Info("launched with detected player", "player", name, "path", lp.path)
				return name, nil
			}
			logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
		}
	}

	return "", fmt.Errorf("no candidate players found")
}

// openArgs builds the argument list for macOS "open -a"
func openArgs(appName string, openFlags, playerArgs []string, src string) []string {
	cmdArgs := make([]string, 0, len(openFlags)+len(playerArgs)+4)
	cmdArgs = append(cmdArgs, openFlags...)
	cmdArgs = append(cmdArgs, "-a", appName)
	if len(playerArgs) > 0 {
		cmdArgs = append(cmdArgs, "--args")
		cmdArgs = append(cmdArgs, playerArgs...)
	}
	return append(cmdArgs, src)
}

// tryLaunchWithCommand starts command if it exists in PATH
func tryLaunchWithCommand(command, src string, args []string) error {
	if _, err := exec.LookPath(command); err != nil {
		return err
	}
	cmdArgs := append(append([]string{}, args...), src)
	return exec.Command(command, cmdArgs...).Start()
}

// configuredArgs assembles the argument list for the configured player
func (l *Launcher) configuredArgs(src, subtitleFile string) []string {
	args := append([]string{}, l.args...)
	args = append(args, subtitleArgs(l.subtitleFlag, subtitleFile)...)
	return append(args, src)
}

// launchConfigured launches the media using the configured player
func (l *Launcher) launchConfigured(src, subtitleFile string) error {
	if subtitleFile != "" && l.subtitleFlag == "" {
		l.logger.Warn("cannot pass subtitles - unknown player, configure subtitle_flag in config",
			"command", l.command)
	}

	args := l.configuredArgs(src, subtitleFile)
	l.logger.Info("launching player", "command", l.command, "args", args)

	// On macOS, launch GUI apps with 'open -a' if command not in PATH
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath(l.command); err != nil {
			var openFlags []string
			if playerCfg, ok := players[playerName(l.command)]; ok {
				for _, lp := range playerCfg.platforms["darwin"] {
					if strings.HasPrefix(lp.path, "open-a:") {
						openFlags = lp.openFlags
						break
					}
				}
			}
			return exec.Command("open", openArgs(l.command, openFlags, args[:len(args)-1], src)...).Start()
		}
	}

	return exec.Command(l.command, args...).Start()
}

// Open hands url to the system default handler (browser, download manager)
func (l *Launcher) Open(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	l.logger.Info("opening with system default", "os", runtime.GOOS, "url", url)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}
