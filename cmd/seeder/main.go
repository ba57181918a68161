package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8000"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "seed":
		seedCmd(apiURL, args)
	case "list":
		listCmd(apiURL)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Blog Seeder - Development tool for filling a local blog API with data

USAGE:
  seeder <command> [options]

COMMANDS:
  seed      Register users, create posts (some unpublished) and comment on them
  list      Print every published post
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8000)

EXAMPLES:
  # Create 3 users with 2 posts each
  seeder seed

  # Create 5 users with 4 posts each, 3 comments per published post
  seeder seed --users=5 --posts=4 --comments=3`)
}

func seedCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	users := fs.Int("users", 3, "Number of users to register")
	posts := fs.Int("posts", 2, "Posts per user; every other post is left unpublished")
	comments := fs.Int("comments", 2, "Comments per published post")
	password := fs.String("password", "seedpassword123", "Password for every seeded user")
	fs.Parse(args)

	if *users < 1 {
		fmt.Println("Error: --users must be at least 1")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("=== Blog Seeder ===")
	fmt.Println()

	tokens := make([]string, 0, *users)
	for i := 0; i < *users; i++ {
		fmt.Printf("[%d/%d] Registering user... ", i+1, *users)
		user, token, err := client.RegisterUser(fmt.Sprintf("Writer%d", i+1), *password)
		if err != nil {
			fmt.Printf("FAILED\n  Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK (%s, %s)\n", user.Username, user.Email)
		tokens = append(tokens, token)
	}

	fmt.Println()
	var published []*Post
	for i, token := range tokens {
		for j := 0; j < *posts; j++ {
			isPublished := j%2 == 0
			title := fmt.Sprintf("Writer%d post #%d", i+1, j+1)
			post, err := client.CreatePost(token, title, "Seeded content for "+title, isPublished)
			if err != nil {
				fmt.Printf("  FAILED to create %q: %v\n", title, err)
				os.Exit(1)
			}
			fmt.Printf("  Created %q (published: %v)\n", post.Title, post.Published)
			if post.Published {
				published = append(published, post)
			}
		}
	}

	fmt.Println()
	created := 0
	for i, post := range published {
		for k := 0; k < *comments; k++ {
			// comment from someone other than the author when possible
			token := tokens[(i+k+1)%len(tokens)]
			if _, err := client.CreateComment(token, post.ID, fmt.Sprintf("Comment %d on %s", k+1, post.Title)); err != nil {
				fmt.Printf("  FAILED to comment on %q: %v\n", post.Title, err)
				os.Exit(1)
			}
			created++
		}
	}

	fmt.Printf("Done: %d users, %d posts (%d published), %d comments\n",
		len(tokens), len(tokens)*(*posts), len(published), created)
	fmt.Printf("All users share the password %q\n", *password)
}

func listCmd(apiURL string) {
	client := NewAPIClient(apiURL)

	posts, err := client.ListPosts()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if len(posts) == 0 {
		fmt.Println("No published posts")
		return
	}

	for _, p := range posts {
		fmt.Printf("%s  %s\n", p.ID, p.Title)
	}
}
