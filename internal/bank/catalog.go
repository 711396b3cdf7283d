package bank

import "hatrean-quiz-service/internal/domain"

// Catalog returns the built-in question set used when no backing store is
// configured (and as the fallback when a store category is empty).
func Catalog() []domain.Question {
	return []domain.Question{
		// General Knowledge
		{
			ID:            "gk-1",
			Category:      "General Knowledge",
			Text:          "What is the capital of France?",
			Options:       map[string]string{"A": "London", "B": "Berlin", "C": "Paris", "D": "Madrid"},
			CorrectAnswer: "C",
			Explanation:   "Paris is the capital and largest city of France.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "gk-2",
			Category:      "General Knowledge",
			Text:          "Which planet is known as the Red Planet?",
			Options:       map[string]string{"A": "Venus", "B": "Mars", "C": "Jupiter", "D": "Saturn"},
			CorrectAnswer: "B",
			Explanation:   "Mars is called the Red Planet due to iron oxide on its surface.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "gk-3",
			Category:      "General Knowledge",
			Text:          "What is the largest ocean on Earth?",
			Options:       map[string]string{"A": "Atlantic Ocean", "B": "Indian Ocean", "C": "Arctic Ocean", "D": "Pacific Ocean"},
			CorrectAnswer: "D",
			Explanation:   "The Pacific Ocean covers about a third of Earth's surface.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "gk-4",
			Category:      "General Knowledge",
			Text:          "What is the smallest country in the world?",
			Options:       map[string]string{"A": "Monaco", "B": "Vatican City", "C": "San Marino", "D": "Liechtenstein"},
			CorrectAnswer: "B",
			Explanation:   "Vatican City has an area of just 0.17 square miles.",
			Difficulty:    domain.DifficultyMedium,
			Points:        15,
		},
		{
			ID:            "gk-5",
			Category:      "General Knowledge",
			Text:          "What is the longest river in the world?",
			Options:       map[string]string{"A": "Amazon River", "B": "Nile River", "C": "Mississippi River", "D": "Yangtze River"},
			CorrectAnswer: "B",
			Explanation:   "The Nile flows over 4,100 miles.",
			Difficulty:    domain.DifficultyMedium,
			Points:        15,
		},

		// Science
		{
			ID:            "sci-1",
			Category:      "Science",
			Text:          "What is the chemical symbol for gold?",
			Options:       map[string]string{"A": "Go", "B": "Gd", "C": "Au", "D": "Ag"},
			CorrectAnswer: "C",
			Explanation:   "Au comes from the Latin word aurum, meaning gold.",
			Difficulty:    domain.DifficultyMedium,
			Points:        15,
		},
		{
			ID:            "sci-2",
			Category:      "Science",
			Text:          "How many bones are there in an adult human body?",
			Options:       map[string]string{"A": "196", "B": "206", "C": "216", "D": "226"},
			CorrectAnswer: "B",
			Explanation:   "An adult human body has 206 bones.",
			Difficulty:    domain.DifficultyHard,
			Points:        20,
		},
		{
			ID:            "sci-3",
			Category:      "Science",
			Text:          "What gas do plants absorb from the atmosphere during photosynthesis?",
			Options:       map[string]string{"A": "Oxygen", "B": "Nitrogen", "C": "Carbon Dioxide", "D": "Hydrogen"},
			CorrectAnswer: "C",
			Explanation:   "Plants absorb carbon dioxide and release oxygen.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "sci-4",
			Category:      "Science",
			Text:          "Which element has the chemical symbol 'O'?",
			Options:       map[string]string{"A": "Gold", "B": "Silver", "C": "Oxygen", "D": "Iron"},
			CorrectAnswer: "C",
			Explanation:   "Oxygen has the chemical symbol O.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "sci-5",
			Category:      "Science",
			Text:          "What is the hardest natural substance on Earth?",
			Options:       map[string]string{"A": "Gold", "B": "Iron", "C": "Diamond", "D": "Platinum"},
			CorrectAnswer: "C",
			Explanation:   "Diamond rates 10 on the Mohs scale.",
			Difficulty:    domain.DifficultyMedium,
			Points:        15,
		},

		// History
		{
			ID:            "hist-1",
			Category:      "History",
			Text:          "In which year did World War II end?",
			Options:       map[string]string{"A": "1944", "B": "1945", "C": "1946", "D": "1947"},
			CorrectAnswer: "B",
			Explanation:   "World War II ended in 1945 with the surrender of Japan.",
			Difficulty:    domain.DifficultyMedium,
			Points:        15,
		},
		{
			ID:            "hist-2",
			Category:      "History",
			Text:          "Who was the first person to walk on the moon?",
			Options:       map[string]string{"A": "Buzz Aldrin", "B": "Neil Armstrong", "C": "John Glenn", "D": "Alan Shepard"},
			CorrectAnswer: "B",
			Explanation:   "Neil Armstrong walked on the moon on July 20, 1969.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "hist-3",
			Category:      "History",
			Text:          "Which ancient wonder of the world was located in Alexandria?",
			Options:       map[string]string{"A": "Hanging Gardens", "B": "Colossus of Rhodes", "C": "Lighthouse", "D": "Temple of Artemis"},
			CorrectAnswer: "C",
			Explanation:   "The Lighthouse of Alexandria was one of the Seven Wonders of the Ancient World.",
			Difficulty:    domain.DifficultyHard,
			Points:        20,
		},
		{
			ID:            "hist-4",
			Category:      "History",
			Text:          "Who painted the Mona Lisa?",
			Options:       map[string]string{"A": "Vincent van Gogh", "B": "Pablo Picasso", "C": "Leonardo da Vinci", "D": "Michelangelo"},
			CorrectAnswer: "C",
			Explanation:   "Leonardo da Vinci painted the Mona Lisa in the early 1500s.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "hist-5",
			Category:      "History",
			Text:          "The Great Wall of China was primarily built to protect against which group?",
			Options:       map[string]string{"A": "Mongols", "B": "Japanese", "C": "Russians", "D": "Koreans"},
			CorrectAnswer: "A",
			Explanation:   "The wall was built to protect against northern nomadic invasions.",
			Difficulty:    domain.DifficultyMedium,
			Points:        15,
		},

		// Technology
		{
			ID:            "tech-1",
			Category:      "Technology",
			Text:          "What does 'HTML' stand for?",
			Options:       map[string]string{"A": "Hyper Text Markup Language", "B": "High Tech Modern Language", "C": "Home Tool Markup Language", "D": "Hyperlink and Text Markup Language"},
			CorrectAnswer: "A",
			Explanation:   "HTML stands for Hyper Text Markup Language.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "tech-2",
			Category:      "Technology",
			Text:          "Which company developed the iPhone?",
			Options:       map[string]string{"A": "Samsung", "B": "Google", "C": "Apple", "D": "Microsoft"},
			CorrectAnswer: "C",
			Explanation:   "Apple released the first iPhone in 2007.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "tech-3",
			Category:      "Technology",
			Text:          "What does 'CPU' stand for?",
			Options:       map[string]string{"A": "Central Processing Unit", "B": "Computer Personal Unit", "C": "Central Program Utility", "D": "Core Processing Unit"},
			CorrectAnswer: "A",
			Explanation:   "The CPU is the central processing unit of a computer.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "tech-4",
			Category:      "Technology",
			Text:          "In what year was the World Wide Web invented?",
			Options:       map[string]string{"A": "1985", "B": "1989", "C": "1993", "D": "1997"},
			CorrectAnswer: "B",
			Explanation:   "Tim Berners-Lee invented the World Wide Web in 1989.",
			Difficulty:    domain.DifficultyHard,
			Points:        20,
		},
		{
			ID:            "tech-5",
			Category:      "Technology",
			Text:          "Which programming language is known as the language of the web?",
			Options:       map[string]string{"A": "Python", "B": "Java", "C": "JavaScript", "D": "C++"},
			CorrectAnswer: "C",
			Explanation:   "JavaScript runs in every major web browser.",
			Difficulty:    domain.DifficultyMedium,
			Points:        15,
		},

		// Sports
		{
			ID:            "sport-1",
			Category:      "Sports",
			Text:          "How many players are there in a standard soccer team on the field?",
			Options:       map[string]string{"A": "9", "B": "10", "C": "11", "D": "12"},
			CorrectAnswer: "C",
			Explanation:   "A soccer team fields 11 players including the goalkeeper.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "sport-2",
			Category:      "Sports",
			Text:          "In which sport would you perform a slam dunk?",
			Options:       map[string]string{"A": "Tennis", "B": "Basketball", "C": "Volleyball", "D": "Football"},
			CorrectAnswer: "B",
			Explanation:   "A slam dunk puts the ball directly through the hoop.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "sport-3",
			Category:      "Sports",
			Text:          "How often are the Summer Olympic Games held?",
			Options:       map[string]string{"A": "Every 2 years", "B": "Every 3 years", "C": "Every 4 years", "D": "Every 5 years"},
			CorrectAnswer: "C",
			Explanation:   "The Summer Olympics are held every four years.",
			Difficulty:    domain.DifficultyEasy,
			Points:        10,
		},
		{
			ID:            "sport-4",
			Category:      "Sports",
			Text:          "Which country has won the most FIFA World Cups?",
			Options:       map[string]string{"A": "Germany", "B": "Argentina", "C": "Brazil", "D": "Italy"},
			CorrectAnswer: "C",
			Explanation:   "Brazil has won the World Cup five times.",
			Difficulty:    domain.DifficultyMedium,
			Points:        15,
		},
		{
			ID:            "sport-5",
			Category:      "Sports",
			Text:          "In tennis, what score follows deuce?",
			Options:       map[string]string{"A": "Match point", "B": "Advantage", "C": "Game point", "D": "Break point"},
			CorrectAnswer: "B",
			Explanation:   "After deuce a player must win the advantage point and then the game point.",
			Difficulty:    domain.DifficultyMedium,
			Points:        15,
		},
	}
}
