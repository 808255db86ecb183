package sheet

// Canonical row shapes for the six published sheets. Every field is a flat
// string or bool so whole snapshots compare with ==; the pollers rely on
// that for their change gate. Missing columns map to "".

// Session is one schedule entry (hoja "programa").
type Session struct {
	Day      string
	Hour     string
	Title    string
	Body     string
	Place    string
	Category string
	Featured bool
}

// MapSession maps a parsed record onto a Session. The alias lists carry the
// header spellings seen in the wild, including the long-lived "titutlo" typo.
func MapSession(r Record) Session {
	return Session{
		Day:      r.Get("dia", "día"),
		Hour:     r.Get("hora"),
		Title:    r.Get("titulo", "titutlo", "título"),
		Body:     r.Get("bajada", "descripcion", "descripción"),
		Place:    r.Get("lugar"),
		Category: r.Get("categoria", "categoría"),
		Featured: r.Flag("destacado"),
	}
}

// Post is one news-feed entry (hoja "novedades").
type Post struct {
	Title  string
	Body   string
	Image  string
	Link   string
	Pinned bool
}

func MapPost(r Record) Post {
	return Post{
		Title:  r.Get("titulo", "titutlo", "título"),
		Body:   r.Get("bajada", "texto"),
		Image:  r.Get("imagen"),
		Link:   r.Get("link", "enlace"),
		Pinned: r.Flag("fijado"),
	}
}

// BookEntry is one library item (hoja "biblioteca").
type BookEntry struct {
	Title    string
	Author   string
	Category string
	Link     string
}

func MapBookEntry(r Record) BookEntry {
	return BookEntry{
		Title:    r.Get("titulo", "titutlo", "título"),
		Author:   r.Get("autor", "autora"),
		Category: r.Get("categoria", "categoría"),
		Link:     r.Get("link", "enlace"),
	}
}

// Place is one venue (hoja "lugares").
type Place struct {
	Name        string
	Description string
	MapLink     string
}

func MapPlace(r Record) Place {
	return Place{
		Name:        r.Get("nombre", "lugar"),
		Description: r.Get("descripcion", "descripción", "bajada"),
		MapLink:     r.Get("mapa", "link"),
	}
}

// Participant is one attendee or speaker (hoja "participantes").
type Participant struct {
	Name    string
	Group   string
	Role    string
	Present bool
}

func MapParticipant(r Record) Participant {
	return Participant{
		Name:    r.Get("nombre"),
		Group:   r.Get("grupo"),
		Role:    r.Get("rol"),
		Present: r.Flag("presente", "confirmado"),
	}
}

// FAQ is one question/answer pair (hoja "preguntas").
type FAQ struct {
	Question string
	Answer   string
	Category string
}

func MapFAQ(r Record) FAQ {
	return FAQ{
		Question: r.Get("pregunta"),
		Answer:   r.Get("respuesta"),
		Category: r.Get("categoria", "categoría"),
	}
}
