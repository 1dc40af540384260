package handlers

import (
	"net/http"

	"github.com/dimitrije/datacoll-api/internal/routing"
	"go.uber.org/zap"
)

// featuresDoc describes the fixed service-level feature set.
type featuresDoc struct {
	ProvidesCollectionPids        bool     `json:"providesCollectionPids"`
	CollectionPidProviderType     string   `json:"collectionPidProviderType"`
	EnforcesAccess                bool     `json:"enforcesAccess"`
	SupportsPagination            bool     `json:"supportsPagination"`
	AsynchronousActions           bool     `json:"asynchronousActions"`
	RuleBasedGeneration           bool     `json:"ruleBasedGeneration"`
	MaxExpansionDepth             int      `json:"maxExpansionDepth"`
	ProvidesVersioning            bool     `json:"providesVersioning"`
	SupportedCollectionOperations []string `json:"supportedCollectionOperations"`
	SupportedModelTypes           []string `json:"supportedModelTypes"`
}

func (d *Dispatcher) serveFeatures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		d.writeError(w, routing.ErrBadRequest)
		return
	}
	d.writeJSON(w, http.StatusOK, featuresDoc{
		ProvidesCollectionPids:        false,
		CollectionPidProviderType:     "string",
		EnforcesAccess:                false,
		SupportsPagination:            false,
		AsynchronousActions:           false,
		RuleBasedGeneration:           true,
		MaxExpansionDepth:             4,
		ProvidesVersioning:            false,
		SupportedCollectionOperations: []string{},
		SupportedModelTypes:           []string{},
	})
}

func (d *Dispatcher) serveVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		d.writeError(w, routing.ErrBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte(d.version)); err != nil {
		d.logger.Warn("write version", zap.Error(err))
	}
}
