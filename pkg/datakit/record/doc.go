/*
Package record provides an in-memory keyed registry of records.

# Overview

A Registry maps int64 ids to Records and offers insert, point lookup,
partial update, delete, list and case-insensitive name search. Mutating
calls report failure with a boolean instead of an error: a duplicate id on
Add, or a missing id on Update and Delete, simply returns false.

	reg := record.NewRegistry()
	defer reg.Close()

	reg.Add(record.New(record.GenerateID(), "John Doe", "john@example.com"))

	for _, r := range reg.SearchByName("john") {
	    fmt.Println(r.Name, r.Email)
	}

# Ownership

Add stores a copy of its argument and every read returns copies, so a caller
can never change registry state except through Update.

# Partial Updates

Update takes an Update value whose nil fields are left alone:

	reg.Update(id, record.Update{}.SetEmail("new@example.com"))

An empty Update is a no-op that still reports whether the record exists.

# Storage

The default store is a MemoryStore that lists records in insertion order.
SQLiteStore keeps the same ordering on disk:

	store, err := record.NewSQLiteStore("records.db")
	if err != nil {
	    return err
	}
	reg := record.NewRegistry(record.WithStore(store))

# Thread Safety

Registry and both stores are safe for concurrent use.
*/
package record
