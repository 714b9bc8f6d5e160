package content

// Values substituted when a section's resource cannot be loaded. The
// Fallback* functions return fresh copies so callers may not alias them.

func FallbackProfile() Profile {
	return Profile{
		FirstName:    "John",
		LastName:     "Doe",
		Role:         "Peternak Lele",
		Bio:          "Pengen jago tapi masih males ngoding, migrasi jadi peternak lele aja dulu.",
		ProfilePhoto: "/vite.svg",
	}
}

func FallbackContact() Contact {
	return Contact{
		Email:  "johndoe@gmail.com",
		GitHub: "johndoe123",
	}
}

func FallbackTechStack() []TechItem {
	return []TechItem{
		{Name: "Node.js", Category: "Backend", Icon: "🟢", Color: "from-green-400 to-green-600"},
		{Name: "Express", Category: "Backend", Icon: "⚡", Color: "from-yellow-400 to-orange-500"},
		{Name: "Laravel", Category: "Backend", Icon: "🔴", Color: "from-red-400 to-red-600"},
		{Name: "PostgreSQL", Category: "Database", Icon: "🐘", Color: "from-blue-400 to-blue-600"},
		{Name: "Redis", Category: "Database", Icon: "💎", Color: "from-red-500 to-pink-500"},
		{Name: "Docker", Category: "DevOps", Icon: "🐳", Color: "from-blue-500 to-cyan-500"},
		{Name: "NGINX", Category: "DevOps", Icon: "🌐", Color: "from-green-500 to-teal-500"},
		{Name: "GitHub Actions", Category: "DevOps", Icon: "⚙️", Color: "from-gray-600 to-gray-800"},
	}
}

func FallbackProjects() []Project {
	return []Project{
		{
			Name:        "Inventory API",
			Description: "A robust backend service to manage warehouse inventory using PostgreSQL and Redis for caching. Features real-time updates, bulk operations, and comprehensive reporting.",
			TechStack:   []string{"Node.js", "PostgreSQL", "Redis"},
			Image:       "/placeholder.svg?height=300&width=400",
			GitHub:      link("https://github.com/yourname/inventory-api"),
		},
		{
			Name:        "CI/CD Visualizer",
			Description: "Dashboard to visualize and monitor GitHub Actions pipeline execution with real-time status updates, deployment tracking, and performance metrics.",
			TechStack:   []string{"React", "TailwindCSS", "GitHub Actions"},
			Image:       "/placeholder.svg?height=300&width=400",
			GitHub:      link("https://github.com/yourname/cicd-visualizer"),
		},
		{
			Name:        "Microservices Gateway",
			Description: "API gateway built with Express.js to handle routing, authentication, rate limiting, and load balancing for microservices architecture.",
			TechStack:   []string{"Express.js", "Docker", "NGINX"},
			Image:       "/placeholder.svg?height=300&width=400",
			GitHub:      link("https://github.com/yourname/api-gateway"),
		},
	}
}

func link(s string) *string { return &s }
