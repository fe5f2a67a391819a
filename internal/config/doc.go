// Package config loads the settings that shape a styled text buffer.
//
// Settings are resolved in layers, later layers overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← STYLEDTEXT_TAB_WIDTH=4
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← styledtext.toml / styledtext.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A settings file groups keys by section:
//
//	[tab]
//	width = 4
//	insert_spaces = true
//
//	[undo]
//	depth = 50
//
//	[font]
//	name = "Menlo"
//	size = 14
//	color = "#202020"
//
// Settings.Options turns the result into engine options:
//
//	s, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	doc := engine.New(s.Options()...)
//
// Watch reloads a settings file whenever it changes on disk.
package config
