// Package orm provides the configuration object that wires application
// repositories to storage relations.
//
// A Configuration collects adapter settings, lazily constructs the backing
// gateway, registers mappings and entities, and applies a fixed
// initialization order exactly once:
//
//	settings, err := config.Load()
//	cfg := orm.New(settings, orm.WithLogger(sugar))
//	cfg.DefineMappings("widgets", func(m *core.Mapping) {
//	    m.Attribute("DisplayName", "name")
//	})
//
//	container, err := cfg.Load(ctx, []orm.Repository{widgets}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Load runs each phase in order, translates any failure into a
// *BootstrapError wrapping the cause and caches the resulting container.
// Configuration is not goroutine-safe: Load is expected to run once,
// synchronously, before any repository is used.
package orm
