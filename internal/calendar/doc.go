// Package calendar turns a weekly schedule into dated events and delivers
// them either to a local SQLite calendar or as an iCalendar (.ics) file.
package calendar
