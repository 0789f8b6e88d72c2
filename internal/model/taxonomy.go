package model

// CategoryMapping links one intervention category to the professional
// roles qualified to serve it.
type CategoryMapping struct {
	Category string   `json:"category"`
	Roles    []string `json:"roles"`
}

// InterventionMapping is the fixed, ordered intervention taxonomy.
// Order is meaningful: Categories() and the semantic matcher both follow it.
var InterventionMapping = []CategoryMapping{
	{Category: "Assistenza Infermieristica", Roles: []string{"Infermiere"}},
	{Category: "Riabilitazione Motoria / Fisioterapia", Roles: []string{"Fisioterapista"}},
	{Category: "Igiene e Cura Personale", Roles: []string{"OSS", "Badante"}},
	{Category: "Supporto Notturno", Roles: []string{"OSS", "Badante"}},
	{Category: "Preparazione Pasti e Spesa", Roles: []string{"Badante", "OSA"}},
	{Category: "Visita Medica", Roles: []string{"Medico"}},
	{Category: "Supporto Psicologico", Roles: []string{"Psicologo"}},
}

// Coordinates is a lat/lon pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CityCoords maps the supported cities to their coordinates, used to
// geolocate registrations for the landing directory.
var CityCoords = map[string]Coordinates{
	"Milano":  {Lat: 45.4642, Lon: 9.1900},
	"Roma":    {Lat: 41.9028, Lon: 12.4964},
	"Napoli":  {Lat: 40.8518, Lon: 14.2681},
	"Torino":  {Lat: 45.0703, Lon: 7.6869},
	"Firenze": {Lat: 43.7696, Lon: 11.2558},
	"Bologna": {Lat: 44.4949, Lon: 11.3426},
	"Palermo": {Lat: 38.1157, Lon: 13.3615},
	"Bari":    {Lat: 41.1171, Lon: 16.8719},
}
