package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// docsPage embeds Swagger UI with a request interceptor that prefixes a
// bare token with "Bearer ", so pasting a raw JWT into the authorize box
// works.
const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Farm Exchange API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  <style>
    body { margin: 0; }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({
        url: "/swagger/doc.json",
        dom_id: "#swagger-ui",
        deepLinking: true,
        presets: [SwaggerUIBundle.presets.apis],
        layout: "BaseLayout",
        persistAuthorization: true,
        requestInterceptor: (req) => {
          const auth = req.headers.Authorization;
          if (auth && !auth.startsWith("Bearer ")) {
            req.headers.Authorization = "Bearer " + auth;
          }
          return req;
        }
      });
    };
  </script>
</body>
</html>
`

// SwaggerUIWithBearerFix serves the documentation page at /docs.
func SwaggerUIWithBearerFix() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
	}
}
