package synth

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
)

// ----- Preset Store ----- //

// presetManager stores whole Patch values as JSON files in a directory, with
// a _list.json index carrying display order. The engine treats presets as
// opaque patch snapshots; applying one goes through the same
// UpdateActiveParams path as any other edit.
type presetManager struct {
	dir  string
	list []string
}

type presetMetaJSON struct {
	Name string `json:"name"`
}
type presetMetaListJSON struct {
	Items []presetMetaJSON `json:"items"`
}

func newPresetManager(dir string) *presetManager {
	return &presetManager{dir: dir}
}

func (pm *presetManager) names() ([]string, error) {
	if pm.list == nil {
		if err := pm.loadList(); err != nil {
			return nil, err
		}
	}
	return pm.list, nil
}

func (pm *presetManager) loadList() error {
	bytes, err := ioutil.ReadFile(filepath.Join(pm.dir, "_list.json"))
	if err != nil {
		return err
	}
	metaList := &presetMetaListJSON{}
	if err := json.Unmarshal(bytes, metaList); err != nil {
		return err
	}
	pm.list = make([]string, len(metaList.Items))
	for i, item := range metaList.Items {
		pm.list[i] = item.Name
	}
	return nil
}

func (pm *presetManager) load(name string) (Patch, error) {
	p := DefaultPatch()
	bytes, err := ioutil.ReadFile(filepath.Join(pm.dir, name+".json"))
	if err != nil {
		return p, err
	}
	p.applyJSON(bytes)
	return p, nil
}

func (pm *presetManager) save(name string, p Patch) error {
	if err := os.MkdirAll(pm.dir, 0755); err != nil {
		return err
	}
	if err := ioutil.WriteFile(filepath.Join(pm.dir, name+".json"), p.toJSON(), 0644); err != nil {
		return err
	}
	for _, existing := range pm.list {
		if existing == name {
			return nil
		}
	}
	pm.list = append(pm.list, name)
	return pm.saveList()
}

func (pm *presetManager) saveList() error {
	metaList := &presetMetaListJSON{Items: make([]presetMetaJSON, len(pm.list))}
	for i, name := range pm.list {
		metaList.Items[i] = presetMetaJSON{Name: name}
	}
	bytes, err := json.Marshal(metaList)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filepath.Join(pm.dir, "_list.json"), bytes, 0644)
}

// ----- Engine integration ----- //

// LoadPresetsFrom attaches a preset directory to the engine.
func (e *Engine) LoadPresetsFrom(dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.presets = newPresetManager(dir)
}

// LoadPreset applies a stored preset as the active patch and returns it.
func (e *Engine) LoadPreset(name string) (Patch, error) {
	e.mu.Lock()
	pm := e.presets
	e.mu.Unlock()
	if pm == nil {
		return Patch{}, fmt.Errorf("no preset directory configured")
	}
	p, err := pm.load(name)
	if err != nil {
		return Patch{}, err
	}
	e.UpdateActiveParams(p)
	e.SetMasterVolume(p.MasterGain)
	return p, nil
}

func (e *Engine) updatePreset(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("preset requires a subcommand")
	}
	switch command[0] {
	case "load":
		if len(command) != 2 {
			return fmt.Errorf("preset load requires a name")
		}
		if _, err := e.LoadPreset(command[1]); err != nil {
			return err
		}
		e.Changes.Add("data")
		e.Changes.Add("preset-loaded")
	case "save":
		if len(command) != 2 {
			return fmt.Errorf("preset save requires a name")
		}
		e.mu.Lock()
		pm := e.presets
		p := e.patch
		e.mu.Unlock()
		if pm == nil {
			return fmt.Errorf("no preset directory configured")
		}
		return pm.save(command[1], p)
	default:
		return fmt.Errorf("unknown preset subcommand %v", command[0])
	}
	return nil
}
