package website

import (
	"net/http"
	"regexp"

	"git.retroherna.org/rh/rhforum/src/notify"
	"git.retroherna.org/rh/rhforum/src/wiki"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewWebsiteRoutes(conn *pgxpool.Pool, dispatcher *notify.Dispatcher, wikiFetcher wiki.Fetcher) http.Handler {
	router := &Router{}
	routes := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			injectResources(conn, wikiFetcher),
			trackRequestPerf,
			panicCatcherMiddleware,
			flushNotifications(dispatcher),
			loadCommonData,
		},
	}

	authed := routes.WithMiddleware(needsAuth)
	admin := routes.WithMiddleware(adminsOnly)

	routes.GET(regexp.MustCompile(`^/$`), Index)
	routes.GET(regexp.MustCompile(`^/active$`), ActiveThreads)

	routes.POST(regexp.MustCompile(`^/register$`), Register)
	routes.POST(regexp.MustCompile(`^/login$`), Login)
	routes.POST(regexp.MustCompile(`^/logout$`), Logout)

	routes.GET(regexp.MustCompile(`^/forum/(?P<forumid>\d+)$`), Forum)
	authed.POST(regexp.MustCompile(`^/forum/(?P<forumid>\d+)$`), NewThread)
	authed.POST(regexp.MustCompile(`^/mark-read$`), MarkAllRead)

	routes.GET(regexp.MustCompile(`^/thread/(?P<threadid>\d+)$`), Thread)
	authed.POST(regexp.MustCompile(`^/thread/(?P<threadid>\d+)$`), ThreadReply)
	admin.POST(regexp.MustCompile(`^/thread/(?P<threadid>\d+)/set$`), ThreadSetFlags)

	authed.POST(regexp.MustCompile(`^/post/(?P<postid>\d+)/edit$`), PostEdit)
	authed.POST(regexp.MustCompile(`^/post/(?P<postid>\d+)/delete$`), PostDelete)

	admin.GET(regexp.MustCompile(`^/users$`), UserList)
	routes.GET(regexp.MustCompile(`^/users/(?P<userid>\d+)$`), UserProfile)
	authed.POST(regexp.MustCompile(`^/users/(?P<userid>\d+)/edit$`), UserEdit)
	routes.GET(regexp.MustCompile(`^/users/(?P<userid>\d+)/threads$`), UserThreads)

	admin.GET(regexp.MustCompile(`^/groups$`), GroupList)
	admin.POST(regexp.MustCompile(`^/groups$`), GroupCreate)
	admin.POST(regexp.MustCompile(`^/groups/(?P<groupid>\d+)/edit$`), GroupEdit)

	authed.GET(regexp.MustCompile(`^/tasks$`), TaskList)
	authed.POST(regexp.MustCompile(`^/tasks$`), TaskCreate)
	authed.POST(regexp.MustCompile(`^/tasks/(?P<taskid>\d+)/edit$`), TaskEdit)
	authed.POST(regexp.MustCompile(`^/tasks/(?P<taskid>\d+)/status$`), TaskSetStatus)
	authed.POST(regexp.MustCompile(`^/irc-send$`), IrcSend(dispatcher))

	admin.GET(regexp.MustCompile(`^/admin/categories$`), CategoryList)
	admin.POST(regexp.MustCompile(`^/admin/categories$`), CategoryCreate)
	admin.POST(regexp.MustCompile(`^/admin/categories/(?P<categoryid>\d+)/edit$`), CategoryEdit)
	admin.POST(regexp.MustCompile(`^/admin/categories/(?P<categoryid>\d+)/move$`), CategoryMove)
	admin.POST(regexp.MustCompile(`^/admin/categories/(?P<categoryid>\d+)/delete$`), CategoryDelete)
	admin.POST(regexp.MustCompile(`^/admin/forums$`), ForumCreate)
	admin.POST(regexp.MustCompile(`^/admin/forums/(?P<forumid>\d+)/edit$`), ForumEdit)
	admin.POST(regexp.MustCompile(`^/admin/forums/(?P<forumid>\d+)/move$`), ForumMove)
	admin.POST(regexp.MustCompile(`^/admin/forums/(?P<forumid>\d+)/delete$`), ForumDelete)

	routes.AnyMethod(regexp.MustCompile(`^/`), FourOhFour)

	return router
}

// Hands every request the shared resources it needs: the connection pool
// and the wiki fetcher (which may be nil when no wiki is configured).
func injectResources(conn *pgxpool.Pool, wikiFetcher wiki.Fetcher) Middleware {
	return func(h Handler) Handler {
		return func(c *RequestContext) ResponseData {
			c.Conn = conn
			c.Wiki = wikiFetcher
			return h(c)
		}
	}
}
