package api

import (
	"net/http"

	"github.com/JaimeStill/wayfarer/internal/prompts"
	"github.com/JaimeStill/wayfarer/pkg/handlers"
	"github.com/JaimeStill/wayfarer/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) []string {
	stages := routes.Group{
		Prefix: "/stages",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: listStages(runtime.Workflow.Stages())},
		},
	}

	return routes.Register(
		mux,
		domain.Plans.Handler().Routes(),
		stages,
	)
}

type stageInfo struct {
	Stage     prompts.Stage   `json:"stage"`
	Title     string          `json:"title"`
	Role      string          `json:"role"`
	Goal      string          `json:"goal"`
	DependsOn []prompts.Stage `json:"depends_on"`
	Artifact  string          `json:"artifact"`
}

// listStages describes the pipeline in execution order.
func listStages(defs prompts.Definitions) http.HandlerFunc {
	info := make([]stageInfo, len(defs))
	for i, def := range defs {
		info[i] = stageInfo{
			Stage:     def.Stage,
			Title:     def.Stage.Title(),
			Role:      def.Persona.Role,
			Goal:      def.Persona.Goal,
			DependsOn: def.DependsOn,
			Artifact:  def.Artifact,
		}
		if info[i].DependsOn == nil {
			info[i].DependsOn = []prompts.Stage{}
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, info)
	}
}
