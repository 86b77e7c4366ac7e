package loadtest

import (
	"math/rand"
	"strings"

	"twutter/internal/model"
)

// SampleUsers are the authors every seeded post is attributed to.
var SampleUsers = []struct {
	Username    string
	DisplayName string
}{
	{"alice_dev", "Alice Developer"},
	{"bob_coder", "Bob Coder"},
	{"charlie_tech", "Charlie Tech"},
	{"diana_web", "Diana Web"},
	{"eddie_fullstack", "Eddie Fullstack"},
	{"fiona_react", "Fiona React"},
	{"george_node", "George Node"},
	{"helen_js", "Helen JS"},
	{"ivan_typescript", "Ivan TypeScript"},
	{"julia_next", "Julia Next"},
	{"kevin_mongo", "Kevin Mongo"},
	{"lisa_api", "Lisa API"},
	{"mike_docker", "Mike Docker"},
	{"nina_kubernetes", "Nina Kubernetes"},
	{"oscar_cloud", "Oscar Cloud"},
	{"paula_devops", "Paula DevOps"},
	{"quinn_frontend", "Quinn Frontend"},
	{"rachel_backend", "Rachel Backend"},
	{"sam_database", "Sam Database"},
	{"tina_microservices", "Tina Microservices"},
}

var postTemplates = []string{
	"Just deployed my latest project! #coding #webdev",
	"Learning {tech} has been amazing so far!",
	"Coffee and code - the perfect combination",
	"Debugging for 3 hours, found a missing semicolon",
	"New feature released! Users can now {feature}",
	"Late night coding session in progress",
	"Code review completed! Great work team",
	"Database optimization complete - 50% faster queries!",
	"Docker containers are running smoothly",
	"API endpoints are responding perfectly",
	"Frontend is looking crisp today",
	"Backend is handling traffic like a champ",
	"Microservices architecture is paying off",
	"Cloud deployment successful!",
	"Security audit passed with flying colors",
	"Performance testing shows great results",
	"User feedback has been overwhelmingly positive",
	"Team collaboration is at an all-time high",
	"Innovation never stops in tech!",
	"Building the future, one commit at a time",
}

var techOptions = []string{"React", "Next.js", "TypeScript", "Node.js", "MongoDB", "Docker", "Kubernetes", "AWS", "GraphQL", "Redis"}

var featureOptions = []string{
	"upload files", "share posts", "follow users", "like content", "comment on posts",
	"search content", "filter posts", "sort by date", "view profiles", "send messages",
}

// Generator produces random posts from the sample users and templates.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) Post() model.BulkPostInput {
	user := SampleUsers[g.rng.Intn(len(SampleUsers))]
	content := postTemplates[g.rng.Intn(len(postTemplates))]

	if strings.Contains(content, "{tech}") {
		content = strings.Replace(content, "{tech}", techOptions[g.rng.Intn(len(techOptions))], 1)
	}
	if strings.Contains(content, "{feature}") {
		content = strings.Replace(content, "{feature}", featureOptions[g.rng.Intn(len(featureOptions))], 1)
	}

	return model.BulkPostInput{Content: content, Author: user.Username}
}

func (g *Generator) Posts(n int) []model.BulkPostInput {
	posts := make([]model.BulkPostInput, n)
	for i := range posts {
		posts[i] = g.Post()
	}
	return posts
}

// SampleUserRequests returns the create requests for every sample user.
func SampleUserRequests() []model.CreateUserRequest {
	reqs := make([]model.CreateUserRequest, len(SampleUsers))
	for i, u := range SampleUsers {
		role := "developer"
		if _, after, ok := strings.Cut(u.Username, "_"); ok && after != "" {
			role = after
		}
		reqs[i] = model.CreateUserRequest{
			Username:    u.Username,
			Email:       u.Username + "@example.com",
			DisplayName: u.DisplayName,
			Bio:         "Tech enthusiast and " + role,
		}
	}
	return reqs
}

func toCreatePostRequest(p model.BulkPostInput) model.CreatePostRequest {
	return model.CreatePostRequest{Content: p.Content, Author: p.Author}
}
