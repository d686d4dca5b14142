package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch vigila el archivo y llama onChange con la config recién cargada
// en cada escritura. Corre hasta que se cancele ctx.
//
// Si la recarga falla (yaml roto, perfil inválido) se loguea y sigue
// vigente la config anterior: onChange no se llama.
func Watch(ctx context.Context, path string, log zerolog.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("config: watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Solo write/create: los editores suelen guardar vía rename
			// (save atómico), eso llega como Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				log.Error().Err(err).Str("path", path).Msg("config: reload failed, keeping previous config")
				continue
			}

			log.Info().Str("path", path).Msg("config: reloaded")
			onChange(cfg)

			// Re-agrega el archivo por si el save atómico cambió el inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("config: watcher error")
		}
	}
}
