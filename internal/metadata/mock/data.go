package mock

import "github.com/reeltv/reeltv/internal/media"

var mockMovieGenres = []media.Genre{
	{ID: 28, Name: "Action"},
	{ID: 12, Name: "Adventure"},
	{ID: 35, Name: "Comedy"},
	{ID: 80, Name: "Crime"},
	{ID: 18, Name: "Drama"},
	{ID: 878, Name: "Science Fiction"},
	{ID: 53, Name: "Thriller"},
}

var mockTVGenres = []media.Genre{
	{ID: 10759, Name: "Action & Adventure"},
	{ID: 16, Name: "Animation"},
	{ID: 18, Name: "Drama"},
	{ID: 9648, Name: "Mystery"},
	{ID: 10765, Name: "Sci-Fi & Fantasy"},
}

func movie(id int, title, date, poster, backdrop string, vote float64, genres ...int) media.Work {
	return media.Work{
		ID: id, Type: media.TypeMovie, Title: title, OriginalTitle: title, ReleaseDate: date,
		PosterPath: poster, BackdropPath: backdrop, VoteAverage: vote, VoteCount: 1000, Popularity: vote * 10,
		GenreIDs: genres,
	}
}

func series(id int, name, date, poster, backdrop string, vote float64, genres ...int) media.Work {
	w := movie(id, name, date, poster, backdrop, vote, genres...)
	w.Type = media.TypeTV
	return w
}

var mockMovies = []media.Work{
	movie(603, "The Matrix", "1999-03-31", "/p96dm7sCMn4VYAStA6siNz30G1r.jpg", "/tlm8UkiQsitc8rSuIAscQDCnP8d.jpg", 8.2, 28, 878),
	movie(550, "Fight Club", "1999-10-15", "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg", "/5TiwfWEaPSwD20uwXjCTUqpQX70.jpg", 8.4, 18, 53),
	movie(680, "Pulp Fiction", "1994-09-10", "/vQWk5YBFWF4bZaofAbv0tShwBvQ.jpg", "/96hiUXEuYsu4tcnvlaY8tEMFM0m.jpg", 8.5, 53, 80, 35),
	movie(155, "The Dark Knight", "2008-07-16", "/qJ2tW6WMUDux911r6m7haRef0WH.jpg", "/cfT29Im5VDvjE0RpyKOSdCKZal7.jpg", 8.5, 18, 28, 80, 53),
	movie(278, "The Shawshank Redemption", "1994-09-23", "/9cqNxx0GxF0bflZmeSMuL5tnGzr.jpg", "/zfbjgQE1uSd9wiPTX4VzsLi0rGG.jpg", 8.7, 18, 80),
	movie(238, "The Godfather", "1972-03-14", "/3bhkrj58Vtu7enYsRolD1fZdja1.jpg", "/tmU7GeKVybMWFButWEGl2M4GeiP.jpg", 8.7, 18, 80),
	movie(27205, "Inception", "2010-07-15", "/xlaY2zyzMfkhk0HSC5VUwzoZPU1.jpg", "/ii8QGacT3MXESqBckQlyrATY0lT.jpg", 8.4, 28, 878, 12),
	movie(157336, "Interstellar", "2014-11-05", "/gEU2QniE6E77NI6lCU6MxlNBvIx.jpg", "/5XNQBqnBwPA9yT0jZ0p3s8bbLh0.jpg", 8.4, 12, 18, 878),
	movie(438631, "Dune", "2021-09-15", "/d5NXSklXo0qyIYkgV94XAgMIckC.jpg", "/jYEW5xZkZk2WTrdbMGAPFuBqbDc.jpg", 7.8, 878, 12),
	movie(693134, "Dune: Part Two", "2024-02-27", "/1pdfLvkbY9ohJlCjQH2CZjjYVvJ.jpg", "/xOMo8BRK7PfcJv9JCnx7s5hj0PX.jpg", 8.2, 878, 12),
	movie(872585, "Oppenheimer", "2023-07-19", "/8Gxv8gSFCU0XGDykEGv7zR1n2ua.jpg", "/7CENyUim29IEsaJhUxIGymCRvPu.jpg", 8.1, 18),
	movie(346698, "Barbie", "2023-07-19", "/iuFNMS8U5cb6xfzi51Dbkovj7vM.jpg", "/ctMserH8g2SeOAnCw5gFjdQF8mo.jpg", 7.0, 35, 12),
}

var mockSeries = []media.Work{
	series(1396, "Breaking Bad", "2008-01-20", "/ggFHVNu6YYI5L9pCfOacjizRGt.jpg", "/tsRy63Mu5cu8etL1X7ZLyf7UP1M.jpg", 8.9, 18, 80),
	series(85271, "WandaVision", "2021-01-15", "/frobUz2X5Pc8OiVZU8Oo5K3NKMM.jpg", "/lOr9NKxh4vMweufMOUDJjJhCRHW.jpg", 7.6, 10765, 9648, 18),
	series(114461, "Ahsoka", "2023-08-22", "/eiJeWeCAEZAmRppnXHiTWDcCd3Q.jpg", "/loDy1LWCkPjECjVTRmyKtOoUpNN.jpg", 7.6, 10765, 10759, 18),
	series(94605, "Arcane", "2021-11-06", "/wwbHr8MPErMbmiYNaxDgTWyewOX.jpg", "/q8eejQcg1bAqImEV8jh8RtBD4uH.jpg", 8.7, 16, 10759),
}

var mockPeople = []media.Cast{
	{ID: 6384, Name: "Keanu Reeves", ProfilePath: "/4D0PpNI0kmP58hgrwGC3wCjxhnm.jpg", Birthday: "1964-09-02", PlaceOfBirth: "Beirut, Lebanon", KnownFor: "Acting", Popularity: 60.1, Biography: "Keanu Charles Reeves is a Canadian actor."},
	{ID: 287, Name: "Brad Pitt", ProfilePath: "/cckcYc2v0yh1tc9QjRelptcOBko.jpg", Birthday: "1963-12-18", PlaceOfBirth: "Shawnee, Oklahoma, USA", KnownFor: "Acting", Popularity: 55.3, Biography: "William Bradley Pitt is an American actor and film producer."},
	{ID: 819, Name: "Edward Norton", ProfilePath: "/8nytsqL59SFJTVYVrN72k6qkGgJ.jpg", Birthday: "1969-08-18", PlaceOfBirth: "Boston, Massachusetts, USA", KnownFor: "Acting", Popularity: 20.4},
	{ID: 17419, Name: "Bryan Cranston", ProfilePath: "/7Jahy5LZX2Fo8fGJltMreAI49hC.jpg", Birthday: "1956-03-07", PlaceOfBirth: "Hollywood, California, USA", KnownFor: "Acting", Popularity: 30.2},
}

var defaultCredits = []media.Cast{
	{ID: 6384, Name: "Keanu Reeves", Character: "Lead", ProfilePath: "/4D0PpNI0kmP58hgrwGC3wCjxhnm.jpg", Order: 0},
}

var mockCredits = map[int][]media.Cast{
	603: {
		{ID: 6384, Name: "Keanu Reeves", Character: "Neo", ProfilePath: "/4D0PpNI0kmP58hgrwGC3wCjxhnm.jpg", Order: 0},
	},
	550: {
		{ID: 819, Name: "Edward Norton", Character: "Narrator", ProfilePath: "/8nytsqL59SFJTVYVrN72k6qkGgJ.jpg", Order: 0},
		{ID: 287, Name: "Brad Pitt", Character: "Tyler Durden", ProfilePath: "/cckcYc2v0yh1tc9QjRelptcOBko.jpg", Order: 1},
	},
	1396: {
		{ID: 17419, Name: "Bryan Cranston", Character: "Walter White", ProfilePath: "/7Jahy5LZX2Fo8fGJltMreAI49hC.jpg", Order: 0},
	},
}

var mockVideos = map[int][]media.Video{
	603: {{ID: "5c9294240e0a267cd516835f", Key: "vKQi3bBA1y8", Name: "The Matrix Trailer", Site: "YouTube", Type: "Trailer"}},
	550: {{ID: "5c9294240e0a267cd5168360", Key: "qtRKdVHc-cE", Name: "Fight Club Trailer", Site: "YouTube", Type: "Trailer"}},
}
