package norfs

import "testing"

func TestCreateThenOpenAndWriteFile(t *testing.T) {
	v, err := Create("scratch", 4096*64, 4096, 256)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Mkdir("/a"); err != nil {
		t.Fatal(err)
	}
	fd, err := v.Open("/a/f", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Write(fd, []byte("hi")); err != nil {
		t.Fatal(err)
	}
	if err := v.Close(fd); err != nil {
		t.Fatal(err)
	}
}
