package i18n

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/kindwatch/wardenbot/internal/infra"
	"github.com/kindwatch/wardenbot/resources"
)

var state = struct {
	mu            sync.Mutex
	translations  map[string]map[string]string
	loaded        map[string]bool
	resourcesPath string
}{
	translations:  make(map[string]map[string]string),
	loaded:        make(map[string]bool),
	resourcesPath: infra.GetResourcesPath("i18n"),
}

func load(lang string) {
	if "en" == lang {
		return
	}

	raw, err := resources.FS.ReadFile(state.resourcesPath + "/" + fmt.Sprintf("%s.yml", lang))
	if err != nil {
		log.WithError(err).Errorln("cant load i18n")
		state.loaded[lang] = true
		return
	}
	translations := make(map[string]string)
	if err := yaml.Unmarshal(raw, &translations); err != nil {
		log.WithError(err).Errorln("cant unmarshal i18n")
		state.loaded[lang] = true
		return
	}
	state.translations[lang] = translations
	state.loaded[lang] = true
}

// Get returns the translation of an English source string, falling back to
// the source string itself.
func Get(key, lang string) string {
	if "en" == lang {
		return key
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	if !state.loaded[lang] {
		load(lang)
	}
	if res, ok := state.translations[lang][key]; ok {
		return res
	}
	log.Tracef(`no translation for key %q`, key)
	return key
}
