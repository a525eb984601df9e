package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/editor"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/render"
)

// ProvideRenderer provides the Markdown renderer.
func ProvideRenderer(i do.Injector) (*render.Renderer, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return render.New(log.Component("render")), nil
}

// ProvideViewCache provides the cache behind standalone view links.
func ProvideViewCache(i do.Injector) (*render.ViewCache, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return render.NewViewCache(cfg.Render.ViewTTL), nil
}

// ProvideImporter provides the export-file importer.
func ProvideImporter(i do.Injector) (*backup.Importer, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return backup.NewImporter(storeHandle.Store, log.Component("import")), nil
}

// ProvideSession provides the editor session shared by every front end and
// opens the configured startup fragment.
func ProvideSession(i do.Injector) (*editor.Session, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	renderer := do.MustInvoke[*render.Renderer](i)
	importer := do.MustInvoke[*backup.Importer](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	session := editor.New(editor.Options{
		Store:    storeHandle.Store,
		Renderer: renderer,
		Importer: importer,
		Logger:   log.Component("editor"),
	})
	if searchHandle.Enabled() {
		session.SetSearcher(searchHandle.Index)
	}

	if fragment := cfg.App.OpenFragment; fragment != "" {
		if session.Navigate(fragment) {
			log.Info("Opened startup post", "id", session.CurrentID())
		} else {
			log.Warn("Startup fragment names no post", "fragment", fragment)
		}
	}

	return session, nil
}
