package corpus

import "github.com/custodia-labs/reelscout/internal/core/domain"

// SampleColumns is the schema of the built-in sample corpus.
var SampleColumns = []string{domain.FieldTitle, domain.FieldGenres, domain.FieldOverview, domain.FieldKeywords}

// Sample returns the built-in 20-movie corpus used when no corpus file exists.
func Sample() *domain.Corpus {
	movies := []domain.Movie{
		{Title: "The Shawshank Redemption", Genres: "Drama", Overview: "Two imprisoned men bond over years finding solace and redemption", Keywords: "prison friendship hope redemption"},
		{Title: "The Godfather", Genres: "Crime Drama", Overview: "The aging patriarch of an organized crime dynasty transfers control", Keywords: "mafia family loyalty power"},
		{Title: "The Dark Knight", Genres: "Action Crime Drama", Overview: "Batman raises the stakes in his war on crime with the Joker", Keywords: "batman joker chaos order"},
		{Title: "Pulp Fiction", Genres: "Crime Drama", Overview: "The lives of two mob hitmen intertwine in four tales of violence", Keywords: "crime violence nonlinear narrative"},
		{Title: "Forrest Gump", Genres: "Drama Romance", Overview: "The presidencies of Kennedy and Johnson through an Alabama man", Keywords: "vietnam war disability friendship"},
		{Title: "Inception", Genres: "Action Sci-Fi Thriller", Overview: "A thief steals corporate secrets through dream-sharing technology", Keywords: "dreams reality heist mind"},
		{Title: "The Matrix", Genres: "Action Sci-Fi", Overview: "A computer programmer fights an underground war against machines", Keywords: "virtual reality artificial intelligence rebellion"},
		{Title: "Goodfellas", Genres: "Crime Drama", Overview: "The story of Henry Hill and his life in the mob", Keywords: "organized crime loyalty betrayal"},
		{Title: "Fight Club", Genres: "Drama Thriller", Overview: "An insomniac office worker forms an underground fight club", Keywords: "insomnia consumerism masculinity"},
		{Title: "Star Wars", Genres: "Adventure Fantasy Sci-Fi", Overview: "Luke Skywalker joins forces with a Jedi Knight to rescue Princess Leia", Keywords: "space opera rebellion empire"},
		{Title: "Casablanca", Genres: "Drama Romance War", Overview: "A cynical American expatriate struggles to help his former lover", Keywords: "world war ii resistance love"},
		{Title: "The Avengers", Genres: "Action Adventure Sci-Fi", Overview: "Earths mightiest heroes must come together to stop Loki", Keywords: "superhero team alien invasion"},
		{Title: "Titanic", Genres: "Drama Romance", Overview: "A seventeen-year-old aristocrat falls in love with a poor artist", Keywords: "ship disaster class love"},
		{Title: "Avatar", Genres: "Action Adventure Fantasy Sci-Fi", Overview: "A paraplegic Marine dispatched to the moon Pandora", Keywords: "alien world environmental message"},
		{Title: "Jurassic Park", Genres: "Adventure Sci-Fi Thriller", Overview: "A paleontologist visiting a dinosaur theme park", Keywords: "dinosaurs science theme park"},
		{Title: "Terminator 2", Genres: "Action Sci-Fi Thriller", Overview: "A cyborg assassin sent back in time", Keywords: "time travel cyborg future"},
		{Title: "Back to the Future", Genres: "Adventure Comedy Sci-Fi", Overview: "A teenager accidentally sent back in time", Keywords: "time travel family comedy"},
		{Title: "Alien", Genres: "Horror Sci-Fi Thriller", Overview: "A space merchant vessel receives an unknown transmission", Keywords: "space horror alien creature"},
		{Title: "Blade Runner", Genres: "Sci-Fi Thriller", Overview: "A blade runner must pursue and terminate replicants", Keywords: "dystopia android identity"},
		{Title: "The Silence of the Lambs", Genres: "Crime Horror Thriller", Overview: "A young FBI cadet must gain the trust of imprisoned cannibal", Keywords: "serial killer psychology fbi"},
	}
	return &domain.Corpus{
		Columns: append([]string(nil), SampleColumns...),
		Movies:  movies,
	}
}
