package httpx

import (
	"html/template"
	"net/http"
)

// graphiqlPage is a minimal GraphiQL shell pointed at the query endpoint.
var graphiqlPage = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>GraphiQL</title>
  <style>body { height: 100vh; margin: 0; } #graphiql { height: 100vh; }</style>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
</head>
<body>
  <div id="graphiql">Loading...</div>
  <script src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    const root = ReactDOM.createRoot(document.getElementById('graphiql'));
    root.render(React.createElement(GraphiQL, {
      fetcher: GraphiQL.createFetcher({ url: {{.Endpoint}} }),
    }));
  </script>
</body>
</html>
`))

// graphiqlHandler serves the in-browser query console for the given endpoint.
func graphiqlHandler(endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := graphiqlPage.Execute(w, struct{ Endpoint string }{Endpoint: endpoint}); err != nil {
			// Client likely went away mid-write.
			return
		}
	}
}
