package database

import (
	"fmt"

	httpEntity "github.com/juniortalk/juniortalk-be/internal/delivery/http/entity"
	"github.com/juniortalk/juniortalk-be/internal/entity"
	"gorm.io/gorm"
)

// ScenarioCatalog - the static conversation catalog seeded into the database
var ScenarioCatalog = []httpEntity.Scenario{
	{ID: "introduction", Title: "Self Introduction", Emoji: "👋", Description: "Practice saying hello and introducing yourself.", Difficulty: httpEntity.DifficultyEasy, InitialPrompt: "Hi! I'm your new friend. What is your name?", Color: "bg-blue-500"},
	{ID: "food", Title: "Ordering Food", Emoji: "🍔", Description: "Let's order some yummy food at a restaurant!", Difficulty: httpEntity.DifficultyEasy, InitialPrompt: "Welcome to the Yummy Burger Shop! What would you like to eat?", Color: "bg-orange-500"},
	{ID: "hobby", Title: "Hobbies", Emoji: "⚽", Description: "Talk about sports, music, and what you like to do.", Difficulty: httpEntity.DifficultyMedium, InitialPrompt: "I love playing soccer on weekends. What do you like to do for fun?", Color: "bg-green-500"},
	{ID: "travel", Title: "Travel", Emoji: "✈️", Description: "Discuss asking for directions and visiting places.", Difficulty: httpEntity.DifficultyHard, InitialPrompt: "I want to go to the zoo. Do you know how to get there?", Color: "bg-purple-500"},
	{ID: "school", Title: "School Day", Emoji: "🏫", Description: "Talk about your classroom, teacher, and favorite subjects.", Difficulty: httpEntity.DifficultyEasy, InitialPrompt: "Good morning! Welcome to school. What is your favorite class?", Color: "bg-indigo-500"},
	{ID: "family", Title: "My Family", Emoji: "👨‍👩‍👧‍👦", Description: "Tell me about your parents, brothers, and sisters.", Difficulty: httpEntity.DifficultyEasy, InitialPrompt: "I have a big family. Do you have any brothers or sisters?", Color: "bg-pink-500"},
	{ID: "park", Title: "At the Park", Emoji: "🌳", Description: "Playing on the swings, slide, and seeing nature.", Difficulty: httpEntity.DifficultyEasy, InitialPrompt: "It is a sunny day at the park! Do you want to play on the slide or the swings?", Color: "bg-green-600"},
	{ID: "shopping", Title: "Shopping Time", Emoji: "🛍️", Description: "Buying new clothes and cool toys at the mall.", Difficulty: httpEntity.DifficultyMedium, InitialPrompt: "Welcome to the shopping mall! Are you looking for clothes or toys today?", Color: "bg-purple-600"},
	{ID: "weather", Title: "The Weather", Emoji: "☀️", Description: "Is it sunny, rainy, or snowy today?", Difficulty: httpEntity.DifficultyEasy, InitialPrompt: "Look out the window! What is the weather like today?", Color: "bg-blue-400"},
	{ID: "doctor", Title: "Visiting the Doctor", Emoji: "🩺", Description: "Explain how you feel when you are sick.", Difficulty: httpEntity.DifficultyHard, InitialPrompt: "Hello. You look a little tired. How are you feeling today?", Color: "bg-red-500"},
	{ID: "pet", Title: "My Pet", Emoji: "🐶", Description: "Talk about cats, dogs, and other cute animals.", Difficulty: httpEntity.DifficultyEasy, InitialPrompt: "I have a fluffy dog named Max. Do you have any pets?", Color: "bg-orange-400"},
	{ID: "birthday", Title: "Birthday Party", Emoji: "🎂", Description: "Celebrating with cake, presents, and friends.", Difficulty: httpEntity.DifficultyMedium, InitialPrompt: "Happy Birthday! We are having a party. How old are you today?", Color: "bg-pink-600"},
	{ID: "library", Title: "In the Library", Emoji: "📚", Description: "Borrowing books and reading quietly.", Difficulty: httpEntity.DifficultyMedium, InitialPrompt: "Shh! We are in the library. What kind of book do you want to read?", Color: "bg-emerald-600"},
	{ID: "sports", Title: "Sports Day", Emoji: "🏅", Description: "Running races and playing team games.", Difficulty: httpEntity.DifficultyMedium, InitialPrompt: "It's Sports Day! Are you ready to run a race?", Color: "bg-yellow-500"},
	{ID: "cooking", Title: "Let's Cook", Emoji: "🍳", Description: "Making a yummy sandwich for lunch.", Difficulty: httpEntity.DifficultyHard, InitialPrompt: "I am hungry. Let's make a sandwich! What should we put inside?", Color: "bg-orange-600"},
	{ID: "movie", Title: "Movie Night", Emoji: "🍿", Description: "Watching a fun movie with popcorn.", Difficulty: httpEntity.DifficultyMedium, InitialPrompt: "I love movies. Do you like funny movies or superhero movies?", Color: "bg-indigo-800"},
	{ID: "lost", Title: "Lost & Found", Emoji: "🔍", Description: "Helping find a lost item.", Difficulty: httpEntity.DifficultyHard, InitialPrompt: "Oh no! I lost my red ball. Can you help me find it?", Color: "bg-gray-500"},
	{ID: "cleaning", Title: "Clean Up Time", Emoji: "🧹", Description: "Tidying up the room and putting toys away.", Difficulty: httpEntity.DifficultyEasy, InitialPrompt: "This room is messy! Let's clean up. Where does this toy car go?", Color: "bg-teal-500"},
	{ID: "help", Title: "Asking for Help", Emoji: "🆘", Description: "How to ask politely when you need assistance.", Difficulty: httpEntity.DifficultyHard, InitialPrompt: "Excuse me, I need some help lifting this heavy box. Can you help me?", Color: "bg-red-600"},
	{ID: "phone", Title: "Telephone Call", Emoji: "📞", Description: "Answering the phone and taking a message.", Difficulty: httpEntity.DifficultyHard, InitialPrompt: "Ring ring! Hello? This is the AI speaking. Who is calling?", Color: "bg-blue-700"},
}

// SeedScenarioCatalog - migrate ScenarioCatalog into the database
func SeedScenarioCatalog(db *gorm.DB) error {
	var count int64
	db.Model(&entity.Scenario{}).Count(&count)
	if count > 0 {
		return nil
	}

	for _, sc := range ScenarioCatalog {
		record := entity.Scenario{
			ScenarioID:    sc.ID,
			Title:         sc.Title,
			Emoji:         sc.Emoji,
			Description:   sc.Description,
			Difficulty:    string(sc.Difficulty),
			InitialPrompt: sc.InitialPrompt,
			Color:         sc.Color,
		}

		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed scenario %s: %w", sc.ID, err)
		}
	}

	return nil
}
