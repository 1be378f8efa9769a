package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	memstore "dog-registry/internal/adapters/sessionstore/memory"
	"dog-registry/internal/adapters/sessionstore/sqlite"
	"dog-registry/internal/config"
	"dog-registry/internal/console/api"
	"dog-registry/internal/console/edit"
	"dog-registry/internal/console/gate"
	"dog-registry/internal/console/query"
	"dog-registry/internal/console/session"
	"dog-registry/internal/platform/logger"
)

func main() {
	log := logger.NewFromEnv()

	cfg, err := config.LoadConsole()
	if err != nil {
		log.Error("invalid config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	var store session.Store
	if cfg.SessionDBPath == "memory" {
		store = memstore.New()
	} else {
		s, err := sqlite.New(cfg.SessionDBPath)
		if err != nil {
			log.Error("session store unavailable", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	// el token se consulta por request; la sesión se arma después del
	// cliente porque el cliente la necesita vía closure
	var sess *session.Session
	client, err := api.New(cfg.APIBaseURL, cfg.HTTPTimeout, func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	})
	if err != nil {
		log.Error("invalid api url", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	sess = session.New(store, client)
	sess.Bootstrap()

	a := &app{
		sess:   sess,
		client: client,
		engine: query.NewEngine(client.FetchAll),
		in:     bufio.NewReader(os.Stdin),
	}
	a.run()
}

type app struct {
	sess   *session.Session
	client *api.Client
	engine *query.Engine
	in     *bufio.Reader
}

func (a *app) run() {
	fmt.Println("dog-registry console. 'help' lista los comandos.")
	if u, ok := a.sess.User(); ok {
		fmt.Printf("sesión restaurada: %s (%s)\n", u.Username, u.Role)
	}

	for {
		fmt.Print("> ")
		line, err := a.in.ReadString('\n')
		if err != nil {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		ctx := context.Background()
		switch args[0] {
		case "help":
			printHelp()
		case "login":
			a.login(ctx, args[1:])
		case "signup":
			a.signup(ctx)
		case "logout":
			a.sess.Logout()
			fmt.Println("sesión cerrada")
		case "whoami":
			if u, ok := a.sess.User(); ok {
				fmt.Printf("%s %s (%s) rol=%s\n", u.FirstName, u.LastName, u.Username, u.Role)
			} else {
				fmt.Println("sin sesión")
			}
		case "list":
			a.guarded("/dogs", func() { a.list(ctx) })
		case "filter":
			a.engine.SetTextFilter(strings.Join(args[1:], " "))
			a.guarded("/dogs", func() { a.render() })
		case "prediction":
			a.engine.SetPredictionFilter(arg(args, 1))
			a.guarded("/dogs", func() { a.render() })
		case "sort":
			a.engine.SetSort(query.SortKey(arg(args, 1)))
			a.guarded("/dogs", func() { a.render() })
		case "page":
			if n, err := strconv.Atoi(arg(args, 1)); err == nil {
				a.engine.SetPage(n)
			}
			a.guarded("/dogs", func() { a.render() })
		case "size":
			if n, err := strconv.Atoi(arg(args, 1)); err == nil {
				a.engine.SetPageSize(n)
			}
			a.guarded("/dogs", func() { a.render() })
		case "show":
			a.guarded("/dogs/"+arg(args, 1), func() { a.show(ctx, arg(args, 1)) })
		case "new":
			a.guarded("/dogs/new", func() { a.editLoop(ctx, "") })
		case "edit":
			a.guarded("/dogs/"+arg(args, 1)+"/edit", func() { a.editLoop(ctx, arg(args, 1)) })
		case "delete":
			a.guarded("/dogs/"+arg(args, 1), func() { a.delete(ctx, arg(args, 1)) })
		case "stats":
			a.guarded("/dogs/stats", func() { a.stats(ctx) })
		case "quit", "exit":
			return
		default:
			fmt.Printf("comando desconocido: %s\n", args[0])
		}
	}
}

// guarded aplica la política de acceso antes de montar una vista
// protegida.
func (a *app) guarded(route string, view func()) {
	res := gate.ForRoute(a.sess.State(), route)
	switch res.Decision {
	case gate.Wait:
		fmt.Println("cargando sesión...")
	case gate.RedirectLogin:
		fmt.Printf("necesitás iniciar sesión para %s (login <usuario> <clave>)\n", res.From)
	case gate.Render:
		view()
	}
}

func (a *app) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("uso: login <usuario> <clave>")
		return
	}
	if err := a.sess.Login(ctx, args[0], args[1]); err != nil {
		fmt.Println(err.Error())
		return
	}
	u, _ := a.sess.User()
	fmt.Printf("hola %s (%s)\n", u.Username, u.Role)
}

func (a *app) signup(ctx context.Context) {
	p := session.Signup{
		Username:  a.prompt("usuario"),
		Password:  a.prompt("clave"),
		Email:     a.prompt("email"),
		FirstName: a.prompt("nombre"),
		LastName:  a.prompt("apellido"),
	}
	if err := a.sess.Signup(ctx, p); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("cuenta creada; ahora iniciá sesión con login")
}

func (a *app) list(ctx context.Context) {
	if err := a.engine.Refresh(ctx); err != nil {
		fmt.Printf("no se pudo cargar el listado: %v\n", err)
		return
	}
	a.render()
}

func (a *app) render() {
	v := a.engine.View()
	fmt.Printf("página %d/%d (%d registros)\n", v.Number+1, max(v.TotalPages, 1), v.Total)
	for _, d := range v.Items {
		weight := "-"
		if kg, ok := d.WeightKg(); ok {
			weight = fmt.Sprintf("%d kg", kg)
		}
		badge := d.IsSafeToPet
		if badge == "" {
			badge = "?"
		}
		fmt.Printf("  [%s] %-10s %-18s %2d años  %6s  %s\n",
			badge, d.Name, d.Breed, d.Age, weight, query.Ellipsis(d.Temperament, 40))
	}
}

func (a *app) show(ctx context.Context, id string) {
	if id == "" {
		fmt.Println("uso: show <id>")
		return
	}
	d, err := a.client.GetDog(ctx, id)
	if err != nil {
		fmt.Printf("no se pudo cargar el registro: %v\n", err)
		return
	}
	fmt.Printf("%s  %s, %d años\n", d.Name, d.Breed, d.Age)
	if d.Color != "" {
		fmt.Printf("  color: %s\n", d.Color)
	}
	if d.Weight != nil {
		fmt.Printf("  peso: %.1f lb\n", *d.Weight)
	}
	if d.Temperament != "" {
		fmt.Printf("  temperamento: %s\n", d.Temperament)
	}
	if d.IsSafeToPet != "" {
		fmt.Printf("  seguro de acariciar: %s (%s)\n", d.IsSafeToPet, d.SafetyExplanation)
	}
}

// editLoop es la vista de edición: carga (o borrador), campos con
// "blur" que dispara la recomputación, y submit/cancel al final.
func (a *app) editLoop(ctx context.Context, id string) {
	u, _ := a.sess.User()
	privileged := gate.IsPrivileged(u)

	var (
		s   *edit.Session
		err error
	)
	if id == "" {
		if !privileged {
			fmt.Println("solo un ADMIN puede crear registros")
			return
		}
		s = edit.NewDraft(a.client, privileged)
	} else {
		s, err = edit.Load(ctx, a.client, id, privileged)
		if err != nil {
			fmt.Printf("no se pudo cargar el registro: %v\n", err)
			return
		}
	}

	if s.ReadOnly() {
		fmt.Println("(solo lectura)")
		a.printForm(s)
		return
	}

	refresh := make(chan struct{}, 8)
	s.OnPredictionChange(func() { refresh <- struct{}{} })

	fields := []struct {
		label string
		dst   *string
	}{
		{"nombre", &s.Form.Name},
		{"raza", &s.Form.Breed},
		{"edad", &s.Form.Age},
		{"color", &s.Form.Color},
		{"peso (lb)", &s.Form.Weight},
		{"temperamento", &s.Form.Temperament},
	}
	for _, f := range fields {
		current := *f.dst
		in := a.prompt(fmt.Sprintf("%s [%s]", f.label, current))
		if in != "" {
			*f.dst = in
		}
		// cada campo completado equivale a un blur del formulario
		s.FieldBlurred(ctx)
		a.drainPrediction(s, refresh)
	}

	a.printForm(s)

	switch a.prompt("guardar? (s/n)") {
	case "s", "si", "y", "yes":
		dog, err := s.Submit(ctx)
		if err != nil {
			fmt.Printf("no se pudo guardar: %v\n", err)
			return
		}
		fmt.Printf("guardado %s (%s)\n", dog.Name, dog.ID)
	default:
		s.Cancel()
		fmt.Println("edición descartada")
	}
}

// drainPrediction espera a que una recomputación en vuelo termine y
// muestra el badge resultante.
func (a *app) drainPrediction(s *edit.Session, refresh <-chan struct{}) {
	for s.PredictionPending() {
		<-refresh
	}
	for {
		select {
		case <-refresh:
		default:
			if p, ok := s.Prediction(); ok {
				fmt.Printf("  clasificación: %s\n", p.Classification)
			}
			return
		}
	}
}

func (a *app) printForm(s *edit.Session) {
	fmt.Printf("  nombre: %s  raza: %s  edad: %s\n", s.Form.Name, s.Form.Breed, s.Form.Age)
	if s.Form.Color != "" || s.Form.Weight != "" {
		fmt.Printf("  color: %s  peso: %s lb\n", s.Form.Color, s.Form.Weight)
	}
	if s.Form.Temperament != "" {
		fmt.Printf("  temperamento: %s\n", s.Form.Temperament)
	}
	if p, ok := s.Prediction(); ok {
		fmt.Printf("  seguro de acariciar: %s (%s)\n", p.Classification, p.Explanation)
	}
}

func (a *app) delete(ctx context.Context, id string) {
	if id == "" {
		fmt.Println("uso: delete <id>")
		return
	}
	u, _ := a.sess.User()
	if !gate.IsPrivileged(u) {
		fmt.Println("solo un ADMIN puede borrar registros")
		return
	}
	if err := a.client.DeleteDog(ctx, id); err != nil {
		fmt.Printf("no se pudo borrar: %v\n", err)
		return
	}
	fmt.Println("registro borrado")
}

func (a *app) stats(ctx context.Context) {
	stats, err := a.client.Stats(ctx)
	if err != nil {
		fmt.Printf("no se pudieron cargar las estadísticas: %v\n", err)
		return
	}
	for k, v := range stats {
		fmt.Printf("  %s: %d\n", k, v)
	}
}

func (a *app) prompt(label string) string {
	fmt.Printf("%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func arg(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	return args[i]
}

func printHelp() {
	fmt.Print(`comandos:
  login <usuario> <clave>   iniciar sesión
  signup                    crear cuenta (requiere login posterior)
  logout                    cerrar sesión
  whoami                    usuario actual
  list                      cargar y mostrar el listado
  filter <texto>            filtro por nombre o raza
  prediction <valor|All>    filtro por clasificación
  sort <name|breed|weight>  ordenar
  page <n> / size <n>       paginación
  show <id>                 detalle de un registro
  new / edit <id>           crear o editar (solo ADMIN)
  delete <id>               borrar (solo ADMIN)
  stats                     totales del registro
  quit                      salir
`)
}
