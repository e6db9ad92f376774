// Package http exposes the planning API over net/http.
//
// The router serves the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. Response:
//     {"token","expiresAt"}; the token is also set in the `planning_session` cookie.
//   - POST /logout: revokes the token taken from the Authorization header or the
//     session cookie. Returns 204 No Content and clears the cookie.
//   - GET /planning?month=YYYY-MM | start=YYYY-MM-DD&end=YYYY-MM-DD | date=YYYY-MM-DD:
//     sessions of the caller's organisation with their classroom, trainer and school.
//   - POST /planning: creates a session from the `CreateSessionInput` payload.
//   - DELETE /planning: body {"id"}; always answers {"ok":true} once the id is accepted.
//   - GET /planning/export.ics: the same period as an iCalendar document.
//   - GET /classes/list, GET /trainers/list: reference lists for the session form.
//   - GET /healthz: pings the store, no session required.
//
// Every route other than /login and /healthz answers 401 {"error":"Unauthorized"}
// without a valid session.
package http
