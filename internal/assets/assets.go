// Package assets loads models and their companion files from an
// extracted client tree. The decoders operate on bytes alone; this is
// the layer that knows which files sit next to which.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/freadblangks/WoWee/internal/m2"
	"github.com/freadblangks/WoWee/internal/wmo"
)

// Group-count ceiling for object files, matching the header field's
// realistic range.
const maxGroupFiles = 4096

// LoadModel reads a skeletal model plus its companions: the first skin
// (embedded view for legacy files, "<Name>00.skin" otherwise) and any
// external "<Name>NNNN-VV.anim" keyframe files. A model without usable
// skin data is an error; missing anim files just leave those sequences
// static.
func LoadModel(path string) (*m2.Model, *m2.Skin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("assets: read %s: %w", path, err)
	}
	model, err := m2.DecodeModel(data)
	if err != nil {
		return nil, nil, err
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))

	var skin *m2.Skin
	if model.Legacy() {
		skin, err = m2.EmbeddedSkin(data, model, 0)
		if err != nil {
			return nil, nil, err
		}
	} else {
		skinData, err := os.ReadFile(stem + "00.skin")
		if err != nil {
			return nil, nil, fmt.Errorf("assets: no skin for %s: %w", path, err)
		}
		skin = m2.DecodeSkin(skinData, model)
	}

	name := filepath.Base(stem)
	for i, s := range model.Sequences {
		if !model.SequenceExternal(i) {
			continue
		}
		animPath := filepath.Join(filepath.Dir(path), m2.AnimFileName(name, s))
		animData, err := os.ReadFile(animPath)
		if err != nil {
			continue
		}
		m2.ApplyAnimFile(model, i, animData)
	}

	return model, skin, nil
}

// LoadObject reads a world-object root plus its numbered group files
// ("<Name>_000.wmo" ...). Missing group files are skipped; the header's
// group count bounds the probe.
func LoadObject(path string) (*wmo.Root, []*wmo.Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("assets: read %s: %w", path, err)
	}
	root, err := wmo.DecodeRoot(data)
	if err != nil {
		return nil, nil, err
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	count := int(root.GroupCount)
	if count > maxGroupFiles {
		count = maxGroupFiles
	}

	groups := make([]*wmo.Group, 0, count)
	for i := 0; i < count; i++ {
		groupData, err := os.ReadFile(fmt.Sprintf("%s_%03d.wmo", stem, i))
		if err != nil {
			continue
		}
		g, err := wmo.DecodeGroup(groupData)
		if err != nil {
			continue
		}
		groups = append(groups, g)
	}

	return root, groups, nil
}
