package website

import (
	"net/http"
	"regexp"

	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewApiRoutes(conn *pgxpool.Pool) http.Handler {
	router := &Router{}
	routes := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			setDBConn(conn),
			trackRequestTime,
			logContextErrorsMiddleware,
			panicCatcherMiddleware,
			resolveAccount,
		},
	}

	api := routes.Group(regexp.MustCompile(`^/api`), needsAccount)

	api.GET(regexp.MustCompile(`^/whoami$`), WhoAmI)
	api.GET(regexp.MustCompile(`^/nav$`), CheckNav)

	api.POST(regexp.MustCompile(`^/articles$`), CreateArticle)
	api.GET(regexp.MustCompile(`^/articles$`), ListArticles)

	article := api.Group(regexp.MustCompile(`^/article/(?P<id>\d+)`))
	article.GET(regexp.MustCompile(`^/?$`), GetArticle)
	article.POST(regexp.MustCompile(`^/action$`), ArticleAction)
	article.GET(regexp.MustCompile(`^/checklist$`), GetChecklist)
	article.GET(regexp.MustCompile(`^/activity$`), GetActivity)
	article.GET(regexp.MustCompile(`^/feedback$`), GetFeedback)
	article.POST(regexp.MustCompile(`^/feedback$`), PostFeedback)

	desk := api.WithMiddleware(needsRole(models.RoleEditor))
	desk.GET(regexp.MustCompile(`^/queue$`), GetReviewQueue)

	admin := api.WithMiddleware(needsRole(models.RoleAdmin))
	admin.POST(regexp.MustCompile(`^/article/(?P<id>\d+)/unpublish$`), Unpublish)
	admin.POST(regexp.MustCompile(`^/assignments$`), SetAssignment)
	admin.DELETE(regexp.MustCompile(`^/assignments/(?P<editor>\d+)/(?P<category>[a-z]+)$`), DeleteAssignment)
	admin.POST(regexp.MustCompile(`^/publishing-rules$`), SetPublishingRule)

	routes.AnyMethod(regexp.MustCompile(`^`), FourOhFour)

	return router
}

func setDBConn(conn *pgxpool.Pool) Middleware {
	return func(h Handler) Handler {
		return func(c *RequestContext) ResponseData {
			c.Conn = conn
			return h(c)
		}
	}
}
