package handler

import "github.com/gorilla/mux"

// Register adds the directory routes. /students/search must precede /students/{id}.
func (h *StudentHandler) Register(r *mux.Router) {
	r.HandleFunc("/students", h.ListAll).Methods("GET")
	r.HandleFunc("/students/search", h.SearchStudents).Methods("GET")
	r.HandleFunc("/students/{id}", h.GetStudent).Methods("GET")
	r.HandleFunc("/departments/{dept}/students", h.ListByDepartment).Methods("GET")
}

func (h *LookupHandler) Register(r *mux.Router) {
	r.HandleFunc("/ping", h.Ping).Methods("GET")
	r.HandleFunc("/students/{id}", h.GetStudent).Methods("GET")
}

func (h *GreetingHandler) Register(r *mux.Router) {
	r.HandleFunc("/hello", h.Hello).Methods("GET")
	r.HandleFunc("/students", h.ListStudents).Methods("GET")
}
