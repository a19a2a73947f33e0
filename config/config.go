// Package config loads the DeterminismConfig and robot Profile from an
// optional TOML file, falling back to the literal defaults spec.md §3/§4
// fix when no file is supplied — mirroring the teacher's pattern of
// profiles-as-Go-literals with an optional external override.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
	"github.com/Danielfoojunwei/MCP-ROBOT/kinematics"
)

// jointLimitTOML mirrors kinematics.JointLimit with TOML tags, since that
// type lives in a package with no TOML awareness of its own.
type jointLimitTOML struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// workspaceTOML mirrors kinematics.Workspace with TOML tags.
type workspaceTOML struct {
	MinX float64 `toml:"min_x"`
	MinY float64 `toml:"min_y"`
	MinZ float64 `toml:"min_z"`
	MaxX float64 `toml:"max_x"`
	MaxY float64 `toml:"max_y"`
	MaxZ float64 `toml:"max_z"`
}

// File is the on-disk TOML shape. Any field left absent keeps its literal
// default from determinism.DefaultConfig/kinematics.DefaultProfile.
type File struct {
	Determinism      determinism.Config         `toml:"determinism"`
	GripperMaxForceN float64                    `toml:"gripper_max_force_n"`
	Workspace        workspaceTOML              `toml:"workspace"`
	JointLimits      map[string]jointLimitTOML  `toml:"joint_limits"`
}

// Load reads path and overlays it onto the literal defaults; a missing or
// empty path returns the defaults untouched.
func Load(path string) (determinism.Config, kinematics.Profile, error) {
	detCfg := determinism.DefaultConfig()
	profile := kinematics.DefaultProfile()

	if path == "" {
		return detCfg, profile, nil
	}

	f := File{
		Determinism: detCfg,
		Workspace: workspaceTOML{
			MinX: profile.Workspace.Min.X, MinY: profile.Workspace.Min.Y, MinZ: profile.Workspace.Min.Z,
			MaxX: profile.Workspace.Max.X, MaxY: profile.Workspace.Max.Y, MaxZ: profile.Workspace.Max.Z,
		},
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return determinism.Config{}, kinematics.Profile{}, err
	}

	if f.Determinism != (determinism.Config{}) {
		detCfg = f.Determinism
	}
	if f.GripperMaxForceN != 0 {
		profile.GripperMaxForceN = f.GripperMaxForceN
	}
	if f.Workspace != (workspaceTOML{}) {
		profile.Workspace.Min.X = f.Workspace.MinX
		profile.Workspace.Min.Y = f.Workspace.MinY
		profile.Workspace.Min.Z = f.Workspace.MinZ
		profile.Workspace.Max.X = f.Workspace.MaxX
		profile.Workspace.Max.Y = f.Workspace.MaxY
		profile.Workspace.Max.Z = f.Workspace.MaxZ
	}
	for name, limit := range f.JointLimits {
		profile.JointLimits[name] = kinematics.JointLimit{Min: limit.Min, Max: limit.Max}
	}

	return detCfg, profile, nil
}
