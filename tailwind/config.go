/*
Copyright © 2026 purgescope contributors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package tailwind

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/purgescope/purgescope/fs"
)

// Config artifact filenames, selected by the detected install's dialect.
const (
	esmConfigName    = "tailwind.config.mjs"
	legacyConfigName = "tailwind.config.js"
)

// ConfigArtifact is the throwaway configuration file synthesized for one
// entry. It lives in a scratch location owned by the synthesizer for the
// duration of one pipeline build.
type ConfigArtifact struct {
	Filename string
	Content  []byte
}

// SynthesizeConfig produces the scratch configuration for one entry. The
// generated config imports the user's base configuration when one exists at
// userConfigPath and spreads it under a content field set to the exact
// module list; with no user config only the content field is emitted. The
// dialect (ESM vs legacy CommonJS) follows the detected install.
func SynthesizeConfig(fsys fs.FileSystem, userConfigPath string, modules []string, install *Install) (ConfigArtifact, error) {
	contentJSON, err := json.Marshal(modules)
	if err != nil {
		return ConfigArtifact{}, fmt.Errorf("encoding content list: %w", err)
	}

	hasUserConfig := userConfigPath != "" && fsys.Exists(userConfigPath)

	if install.UsesESMConfig() {
		return ConfigArtifact{
			Filename: esmConfigName,
			Content:  renderESM(userConfigPath, hasUserConfig, contentJSON),
		}, nil
	}
	return ConfigArtifact{
		Filename: legacyConfigName,
		Content:  renderLegacy(userConfigPath, hasUserConfig, contentJSON),
	}, nil
}

// WriteConfig synthesizes and writes the scratch config for one entry,
// returning the absolute path of the written file.
func WriteConfig(fsys fs.FileSystem, mode DebugMode, entry, userConfigPath string, modules []string, install *Install) (string, error) {
	artifact, err := SynthesizeConfig(fsys, userConfigPath, modules, install)
	if err != nil {
		return "", err
	}

	dir, err := mode.ScratchDir(fsys, entry)
	if err != nil {
		return "", fmt.Errorf("creating scratch dir for entry %s: %w", entry, err)
	}

	path := filepath.Join(dir, artifact.Filename)
	if err := fsys.WriteFile(path, artifact.Content, 0644); err != nil {
		return "", fmt.Errorf("writing scratch config for entry %s: %w", entry, err)
	}
	return path, nil
}

func renderESM(userConfigPath string, hasUserConfig bool, contentJSON []byte) []byte {
	if !hasUserConfig {
		return fmt.Appendf(nil, "export default {\n\tcontent: %s,\n};\n", contentJSON)
	}
	return fmt.Appendf(nil,
		"import config from %s;\n\nexport default {\n\t...config,\n\tcontent: %s,\n};\n",
		jsString(userConfigPath), contentJSON)
}

func renderLegacy(userConfigPath string, hasUserConfig bool, contentJSON []byte) []byte {
	if !hasUserConfig {
		return fmt.Appendf(nil, "module.exports = {\n\tcontent: %s,\n};\n", contentJSON)
	}
	return fmt.Appendf(nil,
		"const config = require(%s);\n\nmodule.exports = {\n\t...config,\n\tcontent: %s,\n};\n",
		jsString(userConfigPath), contentJSON)
}

// jsString renders a Go string as a JS string literal. JSON escaping is a
// strict subset of valid JS string syntax.
func jsString(s string) string {
	encoded, _ := json.Marshal(s)
	return string(encoded)
}
