package cli

import (
	"log/slog"
	"time"

	"github.com/hodq/hodq/internal/catalog"
	"github.com/hodq/hodq/internal/engine"
	"github.com/hodq/hodq/internal/ontology"
)

// loadCatalog returns the embedded battery, or a replacement loaded from
// queriesDir when given.
func loadCatalog(queriesDir string) (*catalog.Catalog, error) {
	if queriesDir != "" {
		slog.Debug("loading catalogue", "dir", queriesDir)
		cat, err := catalog.LoadDir(queriesDir)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load query catalogue", err)
		}
		return cat, nil
	}
	cat, err := catalog.Default()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load embedded catalogue", err)
	}
	return cat, nil
}

// loadGraph loads the ontology file. A load failure is fatal: no query can
// run without a graph.
func loadGraph(path string) (*ontology.Graph, error) {
	slog.Info("loading ontology", "path", path)
	g, err := ontology.LoadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load ontology", err)
	}
	slog.Info("ontology loaded", "triples", g.Len())
	return g, nil
}

// buildEngine selects the collaborator: a remote endpoint when a URL is
// given, otherwise the in-process store fed from the loaded graph.
func buildEngine(g *ontology.Graph, endpoint string, timeout time.Duration) (engine.Engine, error) {
	if endpoint != "" {
		slog.Info("using remote endpoint", "url", endpoint)
		eng, err := engine.NewEndpoint(endpoint, timeout)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to connect to endpoint", err)
		}
		return eng, nil
	}
	eng, err := engine.NewTrigo(g)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build in-process store", err)
	}
	return eng, nil
}
